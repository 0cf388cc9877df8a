// Package config loads the filmFS configuration file.
//
// The configuration lives at $HOME/.config/filmfs/config and holds one
// KEY=VALUE pair per line. Lines without an equals sign are skipped;
// unrecognized keys are ignored so the file format can grow without
// breaking older binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for package config.
var (
	// ErrEmptyValue indicates a KEY= line with nothing after the equals sign.
	ErrEmptyValue = errors.New("empty config value")

	// ErrNoLibraryPath indicates LIBRARY_PATH is missing from the config file.
	ErrNoLibraryPath = errors.New("LIBRARY_PATH not set in config")
)

// defaultPlayers is the set of media-player command names whose reads
// count as watch events. The names are comm values, so the kernel
// truncates them to 15 characters at the source.
var defaultPlayers = []string{"demux", "vlc:disk$0"}

// Config holds the resolved filmFS configuration.
type Config struct {
	// LibraryPath is the directory containing the video files.
	LibraryPath string

	// DatabasePath is where the watch-history database lives.
	// Defaults to watches.db next to the config file.
	DatabasePath string

	// Debug enables FUSE request tracing.
	Debug bool

	// MediaPlayers lists the process command names recognized as
	// media players, defaults plus any from MEDIA_PLAYERS.
	MediaPlayers []string
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "filmfs", "config"), nil
}

// Load reads the configuration from its default location.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads and parses the configuration file at path.
func LoadFile(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(filepath.Dir(path), "watches.db")
	}
	return cfg, nil
}

func parse(contents string) (*Config, error) {
	cfg := &Config{
		MediaPlayers: append([]string(nil), defaultPlayers...),
	}

	for _, line := range strings.Split(contents, "\n") {
		name, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if value == "" {
			return nil, fmt.Errorf("%w for %s", ErrEmptyValue, name)
		}

		switch name {
		case "LIBRARY_PATH":
			cfg.LibraryPath = value
		case "DATABASE_PATH":
			cfg.DatabasePath = value
		case "DEBUG":
			cfg.Debug = value == "TRUE"
		case "MEDIA_PLAYERS":
			for _, player := range strings.Split(value, ",") {
				if player = strings.TrimSpace(player); player != "" {
					cfg.MediaPlayers = append(cfg.MediaPlayers, player)
				}
			}
		}
	}

	if cfg.LibraryPath == "" {
		return nil, ErrNoLibraryPath
	}
	return cfg, nil
}
