// Package config holds the sources manifest: which raw input files belong to
// each schedule source, which digital channels are accepted, and where the
// schedule API lives. The manifest is a YAML file kept next to the data it
// describes; every value has a default matching the station's setup.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/klrn-data/schedcheck/pkg/errors"
)

// DefaultFile is the manifest file name looked up in the data directory.
const DefaultFile = "sources.yaml"

// Manifest maps schedule sources to their raw input files and carries the
// shared channel filter and API settings.
type Manifest struct {
	// Sources maps a source identifier to the raw files it parses,
	// relative to the data directory.
	Sources map[string][]string `yaml:"sources"`

	// Channels is the accepted digital channel set for sources that
	// multiplex several channels in one feed.
	Channels []string `yaml:"channels"`

	// API configures the schedule API used by the fetch command.
	API API `yaml:"api"`
}

// API holds the schedule API endpoint settings. The key itself comes from
// the environment, never from the manifest.
type API struct {
	Endpoint string `yaml:"endpoint"`
	Station  string `yaml:"station"`
}

// Default returns the manifest used when no file is present.
func Default() *Manifest {
	return &Manifest{
		Sources: map[string][]string{
			"protrack": {"February 2025 Schedule.pdf"},
			"titan":    {"MediaStar_9.1.mhtml"},
			"pbs":      {"pbs.json"},
		},
		Channels: []string{"9.1", "9.2", "9.3", "9.4"},
		API: API{
			Endpoint: "https://tvss.services.pbs.org/tvss/",
			Station:  "klrn",
		},
	}
}

// Load reads the manifest at path, filling anything unset from defaults.
// A missing file is not an error; the defaults apply whole.
func Load(path string) (*Manifest, error) {
	m := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var loaded Manifest
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	if len(loaded.Sources) > 0 {
		m.Sources = loaded.Sources
	}
	if len(loaded.Channels) > 0 {
		m.Channels = loaded.Channels
	}
	if loaded.API.Endpoint != "" {
		m.API.Endpoint = loaded.API.Endpoint
	}
	if loaded.API.Station != "" {
		m.API.Station = loaded.API.Station
	}
	return m, nil
}

// InputPaths returns the raw input files for a source, resolved against the
// data directory. Unknown sources are rejected before any work begins.
func (m *Manifest) InputPaths(dataDir, source string) ([]string, error) {
	files, ok := m.Sources[source]
	if !ok {
		return nil, errors.UnknownSourceError(source)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dataDir, f)
	}
	return paths, nil
}

// Known reports whether the source identifier has configured inputs.
func (m *Manifest) Known(source string) bool {
	_, ok := m.Sources[source]
	return ok
}

// AcceptedChannels returns the channel filter as a set.
func (m *Manifest) AcceptedChannels() map[string]bool {
	set := make(map[string]bool, len(m.Channels))
	for _, c := range m.Channels {
		set[c] = true
	}
	return set
}
