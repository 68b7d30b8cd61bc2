package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/network"
)

// Update downloads remoteURL and replaces localPath when the content differs.
// It reports whether the file changed.
func Update(ctx context.Context, remoteURL, localPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := network.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	remote, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", remoteURL, err)
	}

	if local, err := filesystem.API().ReadFile(localPath); err == nil && bytes.Equal(local, remote) {
		return false, nil
	}

	if err := filesystem.WriteAtomic(localPath, remote); err != nil {
		return false, err
	}
	Forget(localPath)
	return true, nil
}
