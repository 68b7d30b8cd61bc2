package provider

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/thrombe/kolekk/internal/scraper"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/where"
)

// Update refreshes the named scripts from baseURL, a directory of raw
// script files. It returns the names that changed and stops at the first error.
func Update(ctx context.Context, baseURL string, names ...string) ([]string, error) {
	baseURL = strings.TrimSuffix(baseURL, "/") + "/"

	var updated []string
	for _, name := range names {
		file := name + CustomProviderExtension
		changed, err := scraper.Update(ctx, baseURL+file, filepath.Join(where.Sources(), file))
		if err != nil {
			log.Warnf("updating script %s: %v", name, err)
			return updated, err
		}
		if changed {
			log.Infof("updated script %s", name)
			updated = append(updated, name)
		}
	}
	return updated, nil
}
