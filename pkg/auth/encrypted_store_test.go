package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *EncryptedFileStore {
	t.Helper()
	t.Setenv("NYTXWORD_PASSPHRASE", "test-passphrase")

	store, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "credentials.enc"))
	if err != nil {
		t.Fatalf("cannot create store: %v", err)
	}
	return store
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	account := &Account{
		Name:         "personal",
		SessionToken: "0^ABC123secret",
		LastModified: time.Now(),
	}

	if err := store.Store(account); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := store.Retrieve("personal")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got.SessionToken != account.SessionToken {
		t.Errorf("expected token %s, got %s", account.SessionToken, got.SessionToken)
	}
}

func TestEncryptedStoreTokenNotOnDiskInPlaintext(t *testing.T) {
	store := newTestStore(t)

	if err := store.Store(&Account{Name: "a", SessionToken: "supersecrettoken"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	data, err := os.ReadFile(store.filepath)
	if err != nil {
		t.Fatalf("cannot read store file: %v", err)
	}
	if strings.Contains(string(data), "supersecrettoken") {
		t.Error("session token stored in plaintext")
	}

	var file encryptedFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Errorf("store file is not valid JSON: %v", err)
	}
	if file.Salt == "" || file.Encrypted == "" {
		t.Error("store file missing salt or ciphertext")
	}
}

func TestEncryptedStoreRetrieveMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Retrieve("nobody"); err != ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound, got %v", err)
	}

	if err := store.Store(&Account{Name: "a", SessionToken: "t"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := store.Retrieve("nobody"); err != ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound, got %v", err)
	}
}

func TestEncryptedStoreList(t *testing.T) {
	store := newTestStore(t)

	accounts, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty list, got %d accounts", len(accounts))
	}

	store.Store(&Account{Name: "a", SessionToken: "t1"})
	store.Store(&Account{Name: "b", SessionToken: "t2"})

	accounts, err = store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
}

func TestEncryptedStoreDelete(t *testing.T) {
	store := newTestStore(t)

	store.Store(&Account{Name: "a", SessionToken: "t"})

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Retrieve("a"); err != ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound after delete, got %v", err)
	}

	if err := store.Delete("a"); err != ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound for double delete, got %v", err)
	}
}

func TestEncryptedStoreWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	t.Setenv("NYTXWORD_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("cannot create store: %v", err)
	}
	if err := store.Store(&Account{Name: "a", SessionToken: "t"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	t.Setenv("NYTXWORD_PASSPHRASE", "second")
	store2, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("cannot create store: %v", err)
	}
	if _, err := store2.Retrieve("a"); err == nil {
		t.Error("expected decryption failure with wrong passphrase")
	}
}

func TestEncryptedStoreGeneratedKeyFile(t *testing.T) {
	// No passphrase in the environment: a key file should be generated
	// next to the credential file with owner-only permissions.
	t.Setenv("NYTXWORD_PASSPHRASE", "")

	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("cannot create store: %v", err)
	}
	if err := store.Store(&Account{Name: "a", SessionToken: "t"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	info, err := os.Stat(path + ".key")
	if err != nil {
		t.Fatalf("key file not generated: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file should be 0600, got %v", perm)
	}

	// A second store over the same path must reuse the key file
	store2, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("cannot reopen store: %v", err)
	}
	if _, err := store2.Retrieve("a"); err != nil {
		t.Errorf("reopened store cannot decrypt: %v", err)
	}
}

func TestEncryptedStoreInvalidInput(t *testing.T) {
	store := newTestStore(t)

	if err := store.Store(nil); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for nil account, got %v", err)
	}
	if err := store.Store(&Account{Name: ""}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for empty name, got %v", err)
	}
	if _, err := store.Retrieve(""); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for empty name, got %v", err)
	}
}
