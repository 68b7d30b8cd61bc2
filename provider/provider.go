// Package provider discovers the Lua catalog scripts installed by the user.
package provider

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/provider/custom"
	"github.com/thrombe/kolekk/util"
	"github.com/thrombe/kolekk/where"
)

// CustomProviderExtension is the file extension of catalog scripts.
const CustomProviderExtension = ".lua"

// Item is one result of a scripted catalog.
type Item = custom.Item

// ErrNotFound is returned by Get for unknown names.
var ErrNotFound = errors.New("provider not found")

// Provider is an installed catalog script.
type Provider struct {
	ID           string
	Name         string
	Path         string
	UsesHeadless bool
}

func (p *Provider) String() string {
	return p.Name
}

// Load compiles the script into a ready source. The caller closes it.
func (p *Provider) Load() (*custom.Source, error) {
	return custom.LoadSource(p.Path)
}

// Customs returns every installed script sorted by name. Unreadable directories yield none.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// Names returns the names of every installed script.
func Names() []string {
	return lo.Map(Customs(), func(p *Provider, _ int) string { return p.Name })
}

// Get finds a script by name.
func Get(name string) (*Provider, bool) {
	return lo.Find(Customs(), func(p *Provider) bool { return p.Name == name })
}

// CustomProviders lists the scripts in where.Sources(). Helper modules named common.lua are skipped.
func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	providers := lo.FilterMap(files, func(f os.FileInfo, _ int) (*Provider, bool) {
		if f.IsDir() || filepath.Ext(f.Name()) != CustomProviderExtension || f.Name() == "common.lua" {
			return nil, false
		}

		path := filepath.Join(where.Sources(), f.Name())
		name := util.FileStem(f.Name())
		return &Provider{
			ID:           custom.IDfromName(name),
			Name:         name,
			Path:         path,
			UsesHeadless: isHeadless(path),
		}, true
	})

	sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
	return providers, nil
}

func isHeadless(path string) bool {
	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return lo.SomeBy([][]byte{
		[]byte(`require("headless")`),
		[]byte(`require('headless')`),
	}, func(m []byte) bool { return bytes.Contains(content, m) })
}
