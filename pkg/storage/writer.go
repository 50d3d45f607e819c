package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nytxword/pkg/nyt"
)

const fileExtension = ".json"

// Writer persists fetched puzzle payloads to disk, either flat under a base
// directory or nested by year/month. Re-running over an overlapping range
// simply overwrites prior files; that overwrite is the idempotence
// mechanism, so no read-back or locking is needed.
type Writer struct {
	baseDir     string
	dateFolders bool
}

// NewWriter creates a writer rooted at baseDir. With dateFolders set,
// puzzles are nested under <base>/<year>/<month> and named by day of month;
// otherwise the layout is flat and files are named by full date.
func NewWriter(baseDir string, dateFolders bool) *Writer {
	return &Writer{
		baseDir:     baseDir,
		dateFolders: dateFolders,
	}
}

// DestinationRoot returns the directory a puzzle for the given date
// belongs in.
func (w *Writer) DestinationRoot(date time.Time) string {
	if w.dateFolders {
		return filepath.Join(
			w.baseDir,
			fmt.Sprintf("%d", date.Year()),
			fmt.Sprintf("%02d", int(date.Month())),
		)
	}
	return w.baseDir
}

// EnsureDestination creates the destination root (and parents) if absent.
// Idempotent; an already existing directory is not an error.
func (w *Writer) EnsureDestination(date time.Time) (string, error) {
	root := w.DestinationRoot(date)
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("cannot create destination directory: %w", err)
	}
	return root, nil
}

// Persist writes one puzzle payload as indented JSON, overwriting any
// existing file at the same path, and returns the final path.
func (w *Writer) Persist(id int, date time.Time, payload json.RawMessage) (string, error) {
	root, err := w.EnsureDestination(date)
	if err != nil {
		return "", err
	}

	var filename string
	if w.dateFolders {
		filename = fmt.Sprintf("%02d", date.Day())
	} else {
		filename = nyt.FormatDate(date)
	}
	path := filepath.Join(root, filename+fileExtension)

	// Re-indent the verbatim payload; key order is preserved.
	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		return "", fmt.Errorf("cannot format puzzle payload: %w", err)
	}
	indented.WriteByte('\n')

	// Write to a temp file first so a failed write never leaves a partial
	// puzzle at the destination path.
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, indented.Bytes(), 0644); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("cannot write puzzle file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("cannot finalize puzzle file: %w", err)
	}

	return path, nil
}

// BaseDir returns the configured base directory.
func (w *Writer) BaseDir() string {
	return w.baseDir
}
