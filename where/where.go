// Package where resolves the filesystem locations kolekk reads from and writes to.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "KOLEKK_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory.
// It follows XDG_CONFIG_HOME on Linux and the user profile equivalents on Darwin and Windows,
// unless KOLEKK_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Kolekk))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Kolekk))
}

// Logs resolves the directory daily log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sources resolves the directory holding Lua catalog scripts.
func Sources() string {
	return ensureDir(filepath.Join(Config(), "sources"))
}

// Data resolves the directory holding the local store.
func Data() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ensureDir(filepath.Join(Config(), "data"))
		}
		base = filepath.Join(home, ".local", "share")
	}
	return ensureDir(filepath.Join(base, constant.Kolekk))
}

// Store resolves the full-text index directory. The index itself is created by the store.
func Store() string {
	return filepath.Join(Data(), "store.bleve")
}

// StoreStamp resolves the file touched on every store mutation.
func StoreStamp() string {
	return filepath.Join(Data(), "store.stamp")
}

// Queries resolves the query history file.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Kolekk))
}
