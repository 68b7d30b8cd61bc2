// Package open hands URLs to the desktop.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/log"
)

// Start opens url with open.with, or the system handler when that is empty. It does not wait.
func Start(url string) error {
	cmd, err := command(runtime.GOOS, url, viper.GetString(key.OpenWith))
	if err != nil {
		return err
	}

	log.Infof("opening %s with %s", url, cmd.Path)
	return cmd.Start()
}

func command(goos, url, app string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		if app != "" {
			// start treats & as a command separator
			return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(url, "&", "^&")), nil
		}
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		if app != "" {
			return exec.Command("open", "-a", app, url), nil
		}
		return exec.Command("open", url), nil
	case "android":
		return exec.Command("termux-open", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if app != "" {
			return exec.Command(app, url), nil
		}
		return exec.Command("xdg-open", url), nil
	default:
		return nil, fmt.Errorf("opening urls is not supported on %s", goos)
	}
}
