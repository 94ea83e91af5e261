package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Neev4n/vfs-shell/internal/debug"
)

// EnvVar names the optional YAML file that overrides DefaultConfig.
const EnvVar = "VFSH_CONFIG"

// Config is the serialisable shell configuration. Fields left out of a
// loaded file keep their DefaultConfig values.
type Config struct {
	// WorkDir is where the archive is extracted, relative to the process
	// working directory unless absolute.
	WorkDir string `json:"workDir" yaml:"workDir"`
	// RootDir pins the shell root to WorkDir/RootDir. Empty means detect.
	RootDir     string        `json:"rootDir,omitempty" yaml:"rootDir,omitempty"`
	SortListing bool          `json:"sortListing" yaml:"sortListing"`
	History     HistoryConfig `json:"history" yaml:"history"`
}

type HistoryConfig struct {
	FlushEachCommand bool   `json:"flushEachCommand" yaml:"flushEachCommand"`
	TimeFormat       string `json:"timeFormat" yaml:"timeFormat"`
}

// DefaultTimeFormat is ISO-8601 local time with microseconds.
const DefaultTimeFormat = "2006-01-02T15:04:05.000000"

func DefaultConfig() *Config {
	return &Config{
		WorkDir:     "vfs",
		SortListing: true,
		History: HistoryConfig{
			TimeFormat: DefaultTimeFormat,
		},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.WorkDir == "" {
		return errors.New("workDir must not be empty")
	}
	if c.RootDir != "" {
		if filepath.IsAbs(c.RootDir) {
			return errors.Errorf("rootDir %q must be relative to workDir", c.RootDir)
		}
		if clean := filepath.Clean(c.RootDir); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return errors.Errorf("rootDir %q escapes workDir", c.RootDir)
		}
	}
	if c.History.TimeFormat == "" {
		return errors.New("history.timeFormat must not be empty")
	}
	return nil
}

// Load reads path from fs on top of the defaults. An empty path yields the
// defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	debug.DPrintf(debug.CONFIG, "loaded %s: %+v", path, *cfg)
	return cfg, nil
}

// FromEnv loads the file named by VFSH_CONFIG, if any.
func FromEnv(fs afero.Fs) (*Config, error) {
	return Load(fs, os.Getenv(EnvVar))
}
