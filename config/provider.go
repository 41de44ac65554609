package config

import (
	"fmt"

	"github.com/carbocation/harmonize/rawtable"
	"github.com/carbocation/harmonize/table"
	log "github.com/sirupsen/logrus"
)

type file struct {
	path   string
	layout rawtable.Layout
}

// Provider reads raw artifacts from disk with rawtable. Artifacts are named
// "<layout>:<path>".
type Provider struct {
	files map[string]file
}

func newProvider() *Provider {
	return &Provider{files: make(map[string]file)}
}

func (p *Provider) add(path, layoutName string, layout rawtable.Layout) string {
	artifact := layoutName + ":" + path
	p.files[artifact] = file{path: path, layout: layout}
	return artifact
}

// Raw implements dataset.RawProvider.
func (p *Provider) Raw(artifact string) (*table.Raw, error) {
	f, ok := p.files[artifact]
	if !ok {
		return nil, fmt.Errorf("unknown artifact %q", artifact)
	}

	log.Printf("Reading %s\n", f.path)
	return rawtable.ReadAny(f.path, f.layout)
}
