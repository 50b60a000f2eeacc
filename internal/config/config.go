package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/blacken/internal/config/loader"
	"github.com/dshills/blacken/internal/config/watcher"
	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/logging"
)

// DefaultFileName is the settings file name without extension.
const DefaultFileName = "blacken"

// Store holds the current settings and reloads them on demand.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	path      string
	fs        loader.FileSystem
	env       *loader.EnvLoader
	overrides map[string]any
	settings  Settings
	logger    *logging.Logger

	onReload []func(Settings)
}

// Option configures a Store.
type Option func(*Store)

// WithFileSystem sets the file system used to read the settings file.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithEnviron replaces the environment source.
func WithEnviron(environ func() []string) Option {
	return func(s *Store) {
		s.env.WithEnviron(environ)
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithComponent("config")
		}
	}
}

// NewStore creates a store backed by the settings file at path. An empty
// path uses defaults and the environment only. The store holds defaults
// until Reload is called.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		fs:        loader.DefaultFS(),
		env:       loader.NewEnvLoader(loader.DefaultEnvPrefix, Keys()...),
		overrides: make(map[string]any),
		settings:  Defaults(),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads every layer. On error the previous settings stay in
// effect.
func (s *Store) Reload() error {
	s.mu.Lock()
	next, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.settings = next
	callbacks := make([]func(Settings), len(s.onReload))
	copy(callbacks, s.onReload)
	s.mu.Unlock()

	s.logger.Debug("settings loaded from %s", s.describePath())
	for _, cb := range callbacks {
		cb(next)
	}
	return nil
}

// load merges the layers. Callers hold s.mu.
func (s *Store) load() (Settings, error) {
	merged := make(map[string]any)

	if s.path != "" {
		l, err := loader.ForPath(s.fs, s.path)
		if err != nil {
			return Settings{}, err
		}
		data, err := l.Load()
		if err != nil {
			return Settings{}, err
		}
		loader.DeepMerge(merged, data)
	}

	envData, err := s.env.Load()
	if err != nil {
		return Settings{}, fmt.Errorf("loading environment: %w", err)
	}
	loader.DeepMerge(merged, envData)
	loader.DeepMerge(merged, s.overrides)

	next := Defaults()
	if err := next.apply(merged); err != nil {
		return Settings{}, err
	}
	return next, nil
}

func (s *Store) describePath() string {
	if s.path == "" {
		return "defaults"
	}
	return s.path
}

// Set overrides a single setting above every other layer. The value is
// validated before it is kept.
func (s *Store) Set(key string, value any) error {
	candidate := Defaults()
	if err := candidate.apply(map[string]any{key: value}); err != nil {
		return err
	}

	s.mu.Lock()
	s.overrides[key] = value
	next, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.settings = next
	s.mu.Unlock()
	return nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Options implements format.OptionsSource.
func (s *Store) Options() format.Options {
	return s.Settings().Options
}

// Snapshot returns the invocation config for a buffer of the given kind.
func (s *Store) Snapshot(kind format.FileKind) format.FormatConfig {
	return s.Options().FormatConfig(kind)
}

// OnReload registers a callback run after each successful Reload.
func (s *Store) OnReload(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Watch registers the settings file with w so that edits trigger Reload.
// Reload errors are logged and the previous settings kept.
func (s *Store) Watch(w *watcher.Watcher) error {
	if s.path == "" {
		return nil
	}
	if err := w.Watch(s.path); err != nil {
		return fmt.Errorf("watching %s: %w", s.path, err)
	}
	w.OnChange(func(event watcher.Event) {
		s.logger.Info("settings file %s: %s", event.Op, event.Path)
		if err := s.Reload(); err != nil {
			s.logger.Warn("reload failed, keeping previous settings: %v", err)
		}
	})
	return nil
}

// DefaultPath returns the settings file under the user config directory.
// The first existing of blacken.toml, blacken.yaml and blacken.yml wins;
// with none present the TOML path is returned.
func DefaultPath() string {
	return defaultPath(loader.DefaultFS(), userConfigDir())
}

func defaultPath(fs loader.FileSystem, dir string) string {
	if dir == "" {
		return ""
	}
	base := filepath.Join(dir, DefaultFileName)
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		if _, err := fs.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return base + ".toml"
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, DefaultFileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, DefaultFileName)
}
