package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semlex.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semlex"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvConfigPath names a config file applied after the project layer
	EnvConfigPath = "SEMLEX_CONFIG"
)

// layer is one config file in precedence order.
type layer struct {
	name     string
	path     string
	optional bool // a missing file is not worth a warning
}

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	sources []string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load merges, over the defaults and in increasing precedence:
//  1. ~/.config/semlex/config.yaml
//  2. semlex.yaml in the current or a parent directory
//  3. the file named by $SEMLEX_CONFIG
//
// Files that do not exist are skipped. A broken user or project file is
// logged and skipped; a broken $SEMLEX_CONFIG file is an error.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()
	l.sources = nil

	for _, ly := range l.layers() {
		next, err := loadLayer(ly.path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config layer", slog.String("layer", ly.name), slog.String("path", ly.path))
			config.Merge(next)
			l.sources = append(l.sources, ly.path)
		case errors.Is(err, os.ErrNotExist) && ly.optional:
		case ly.name == "env":
			return nil, err
		default:
			l.logger.Warn("Failed to load config layer",
				slog.String("layer", ly.name),
				slog.String("path", ly.path),
				slog.String("error", err.Error()))
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) layers() []layer {
	var layers []layer
	if p := l.userConfigPath(); p != "" {
		layers = append(layers, layer{name: "user", path: p, optional: true})
	}
	if p := l.ProjectConfigPath(); p != "" {
		layers = append(layers, layer{name: "project", path: p})
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		layers = append(layers, layer{name: "env", path: p})
	}
	return layers
}

// Sources returns the files the last Load merged, lowest precedence first.
func (l *Loader) Sources() []string {
	return l.sources
}

// WatchPath returns the highest-precedence file the last Load merged, or ""
// when only defaults were used.
func (l *Loader) WatchPath() string {
	if len(l.sources) == 0 {
		return ""
	}
	return l.sources[len(l.sources)-1]
}

// LoadPath loads an explicit config file over the defaults, skipping the
// other layers.
func (l *Loader) LoadPath(path string) (*Config, error) {
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	l.sources = []string{path}
	l.logger.Debug("Loaded config", slog.String("path", path))
	return config, nil
}

// EnsureUserConfig writes the defaults to the user config file unless it
// already exists, and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	path := l.userConfigPath()
	if path == "" {
		return "", errors.New("no home directory for the user config")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return path, nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// ProjectConfigPath searches for semlex.yaml in current and parent directories.
// It returns "" when none exists.
func (l *Loader) ProjectConfigPath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
