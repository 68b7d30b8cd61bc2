package filesystem

import (
	"io"
	"os"
)

// Gache lets the disk caches write through whichever fs API returns,
// so tests that swap in a memory fs never touch the real cache dir.
var Gache gacheFs

type gacheFs struct{}

func (gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
