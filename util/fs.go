package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thrombe/kolekk/filesystem"
	"golang.org/x/term"
)

// FileStem is the base name of path without any extensions,
// so "a/b/site.min.lua" becomes "site".
func FileStem(path string) string {
	return trimExt(filepath.Base(path))
}

// Delete removes path whether it is a file or a directory tree.
func Delete(path string) error {
	info, err := filesystem.API().Stat(path)
	switch {
	case err != nil:
		return err
	case info.IsDir():
		return filesystem.API().RemoveAll(path)
	default:
		return filesystem.API().Remove(path)
	}
}

// TerminalSize reports the columns and rows of stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// PrintErasable writes a status line without a newline. The returned
// func blanks it out again.
func PrintErasable(msg string) (erase func()) {
	fmt.Print("\r", msg)
	return func() {
		fmt.Print("\r", strings.Repeat(" ", len(msg)), "\r")
	}
}
