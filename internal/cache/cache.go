// Package cache stores JSON blobs for scripted catalogs under the cache directory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/where"
)

// TTL is how long an entry stays readable.
const TTL = 6 * time.Hour

// Dir is where entries live.
func Dir() string {
	dir := filepath.Join(where.Cache(), "scripted")
	lo.Must0(filesystem.API().MkdirAll(dir, os.ModePerm))
	return dir
}

// GenerateKey derives a file name from the parts. Parts are case and space insensitive.
func GenerateKey(parts ...string) string {
	normalized := lo.Map(parts, func(p string, _ int) string {
		return strings.ToLower(strings.Join(strings.Fields(p), " "))
	})
	hash := sha256.Sum256([]byte(strings.Join(normalized, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry under key into target. It reports false for
// missing, expired or unreadable entries.
func Read(key string, target any) bool {
	path := filepath.Join(Dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, replacing the old entry atomically.
func Write(key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return filesystem.WriteAtomic(filepath.Join(Dir(), key), buf)
}

// CollectGarbage removes expired entries in the background.
func CollectGarbage() {
	go func() {
		removed := 0
		_ = filesystem.API().Walk(Dir(), func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if time.Since(info.ModTime()) > TTL {
				if filesystem.API().Remove(path) == nil {
					removed++
				}
			}
			return nil
		})
		if removed > 0 {
			log.Debugf("removed %d expired scripted cache entries", removed)
		}
	}()
}
