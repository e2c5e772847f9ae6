// Package store persists the user's credential and model selection as a small
// JSON file. The file is always rewritten whole; it is never appended to or
// patched in place.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned by Load when the file does not exist.
	ErrNotFound = errors.New("config file not found")
	// ErrEmpty is returned by Load when the file exists but holds no content.
	ErrEmpty = errors.New("config file is empty")
	// ErrMalformed is returned by Load when the content does not decode into a Record.
	ErrMalformed = errors.New("config file is malformed")
	// ErrInvalidRecord is returned by Save for a record missing a required field.
	ErrInvalidRecord = errors.New("invalid config record")
	// ErrIO wraps filesystem failures (create, open, read, write).
	ErrIO = errors.New("config file I/O error")
)

// Record is the persisted configuration.
type Record struct {
	APIKey string `json:"api_key"` // already carries the authorization scheme prefix
	Model  string `json:"model"`
}

// Validate reports whether both fields are set.
func (r Record) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return fmt.Errorf("%w: api_key is empty", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Model) == "" {
		return fmt.Errorf("%w: model is empty", ErrInvalidRecord)
	}
	return nil
}

// Recoverable reports whether err from Load means the record should be
// rebuilt interactively rather than aborting the run.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmpty) || errors.Is(err, ErrMalformed)
}

// Exists reports whether something exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Create makes an empty file at path if none exists. Existing content is left
// untouched.
func Create(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", ErrIO, dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}
	return nil
}

// Load reads and decodes the record at path.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	// Pointers distinguish a missing key from an empty one.
	var raw struct {
		APIKey *string `json:"api_key"`
		Model  *string `json:"model"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if raw.APIKey == nil || raw.Model == nil {
		return Record{}, fmt.Errorf("%w: %s: missing api_key or model", ErrMalformed, path)
	}

	rec := Record{APIKey: *raw.APIKey, Model: *raw.Model}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return rec, nil
}

// Save replaces the content of path with rec. The record is validated and
// encoded before the file is opened, so a bad record leaves the file as it was.
func Save(path string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode config record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}
	return nil
}
