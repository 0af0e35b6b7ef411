// Package app provides the application context and dependency management for
// the schedcheck CLI. It centralizes configuration, logging, and the sources
// manifest so commands share one view of the station's setup.
package app

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/klrn-data/schedcheck/internal/config"
	"github.com/klrn-data/schedcheck/pkg/errors"
)

// App represents the schedcheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Sources manifest (lazy-loaded, singleton)
	mu       sync.Mutex
	manifest *config.Manifest
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Manifest returns the sources manifest, loading it from the data directory
// on first use. The manifest file is optional; defaults apply without one.
func (a *App) Manifest() (*config.Manifest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manifest != nil {
		return a.manifest, nil
	}

	m, err := config.Load(filepath.Join(a.config.DataDir, a.config.ManifestFile))
	if err != nil {
		return nil, err
	}
	a.manifest = m
	return m, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithManifest sets a custom sources manifest (useful for testing).
func WithManifest(m *config.Manifest) Option {
	return func(a *App) error {
		a.manifest = m
		return nil
	}
}
