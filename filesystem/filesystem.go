// Package filesystem provides a swappable abstraction over every filesystem operation kolekk performs.
//
// It uses afero so tests can run against an in-memory backend.
package filesystem

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Touch creates path if missing and bumps its modification time.
func Touch(path string) error {
	if err := API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	f, err := API().OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	now := time.Now()
	return API().Chtimes(path, now, now)
}

// WriteAtomic writes data to a sibling temp file and renames it over path.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := API().WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := API().Rename(tmp, path); err != nil {
		_ = API().Remove(tmp)
		return err
	}
	return nil
}
