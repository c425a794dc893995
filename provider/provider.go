// Package provider manages built-in and custom show search providers.
package provider

import (
	"path/filepath"

	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/provider/custom"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/util"
	"github.com/torii-cli/torii/where"
)

// CustomProviderExtension is the file extension for Lua provider scripts.
const CustomProviderExtension = ".lua"

// Provider represents a source provider.
type Provider struct {
	ID       string
	Name     string
	IsCustom bool // Lua-based providers.

	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:   "allanime builtin",
			Name: "allanime",
			CreateSource: func() (source.Source, error) {
				return &allAnimeSource{}, nil
			},
		},
	}
}

// Customs returns all available Lua providers.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// Get finds a provider by name, builtins first.
func Get(name string) (*Provider, bool) {
	for _, p := range Builtins() {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range Customs() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// CustomProviders discovers Lua scripts under the sources directory.
func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if filepath.Ext(f.Name()) != CustomProviderExtension {
			continue
		}

		if f.Name() == "common.lua" {
			continue
		}

		path := filepath.Join(where.Sources(), f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			CreateSource: func() (source.Source, error) {
				return custom.LoadSource(path)
			},
		})
	}

	return providers, nil
}
