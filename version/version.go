// Package version checks GitHub for newer kolekk releases.
package version

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/network"
	"github.com/thrombe/kolekk/where"
)

const (
	releasesURL   = "https://api.github.com/repos/thrombe/kolekk/releases/latest"
	releaseTagURL = "https://github.com/thrombe/kolekk/releases/tag/v"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: filesystem.Gache,
})

// Latest retrieves the most recent stable version from GitHub releases.
// The answer is cached for two days.
func Latest() (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := network.GetJSON(ctx, releasesURL, nil, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version := strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
