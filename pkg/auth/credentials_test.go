package auth

import (
	"testing"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short token", "abc", "********"},
		{"exactly eight", "12345678", "********"},
		{"long token", "0^ABCDEF123456XYZ9", "0^AB...XYZ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskToken(tt.input); got != tt.expected {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Run("unset variable", func(t *testing.T) {
		t.Setenv("NYTXWORD_SESSION_TOKEN", "")
		if _, err := store.Retrieve("default"); err != ErrCredentialsNotFound {
			t.Errorf("expected ErrCredentialsNotFound, got %v", err)
		}

		accounts, err := store.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(accounts) != 0 {
			t.Errorf("expected no accounts, got %d", len(accounts))
		}
	})

	t.Run("set variable", func(t *testing.T) {
		t.Setenv("NYTXWORD_SESSION_TOKEN", "env-token")

		account, err := store.Retrieve("")
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		if account.Name != "default" {
			t.Errorf("expected default account name, got %s", account.Name)
		}
		if account.SessionToken != "env-token" {
			t.Errorf("expected env-token, got %s", account.SessionToken)
		}
	})

	t.Run("read only", func(t *testing.T) {
		if err := store.Store(&Account{Name: "a", SessionToken: "t"}); err != ErrStoreUnavailable {
			t.Errorf("expected ErrStoreUnavailable on Store, got %v", err)
		}
		if err := store.Delete("a"); err != ErrStoreUnavailable {
			t.Errorf("expected ErrStoreUnavailable on Delete, got %v", err)
		}
	})
}

func TestManagerWithStores(t *testing.T) {
	t.Setenv("NYTXWORD_SESSION_TOKEN", "")
	encrypted := newTestStore(t)
	manager := &Manager{stores: []CredentialStore{encrypted, NewEnvironmentStore()}}

	t.Run("store and retrieve", func(t *testing.T) {
		if err := manager.Store(&Account{Name: "work", SessionToken: "tok"}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}

		account, err := manager.Retrieve("work")
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		if account.SessionToken != "tok" {
			t.Errorf("expected tok, got %s", account.SessionToken)
		}
		if account.LastModified.IsZero() {
			t.Error("LastModified should be set on store")
		}
	})

	t.Run("validation", func(t *testing.T) {
		if err := manager.Store(&Account{SessionToken: "tok"}); err == nil {
			t.Error("expected error for missing name")
		}
		if err := manager.Store(&Account{Name: "x"}); err == nil {
			t.Error("expected error for missing token")
		}
	})

	t.Run("environment wins for default", func(t *testing.T) {
		t.Setenv("NYTXWORD_SESSION_TOKEN", "env-tok")

		account, err := manager.RetrieveDefault()
		if err != nil {
			t.Fatalf("RetrieveDefault failed: %v", err)
		}
		if account.SessionToken != "env-tok" {
			t.Errorf("environment token should win, got %s", account.SessionToken)
		}
	})

	t.Run("fallback to stored account", func(t *testing.T) {
		t.Setenv("NYTXWORD_SESSION_TOKEN", "")

		account, err := manager.RetrieveDefault()
		if err != nil {
			t.Fatalf("RetrieveDefault failed: %v", err)
		}
		if account.Name != "work" {
			t.Errorf("expected stored account, got %s", account.Name)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := manager.Delete("work"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := manager.Retrieve("work"); err == nil {
			t.Error("expected error after delete")
		}
		if err := manager.Delete("work"); err == nil {
			t.Error("expected error for deleting a missing account")
		}
	})
}
