// Package config loads application settings from TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	ManifestURL    string `koanf:"manifest_url"`    // song catalog JSON
	AssetHost      string `koanf:"asset_host"`      // base URL for audio assets
	FallbackArtist string `koanf:"fallback_artist"` // artist used when the manifest has none
	DownloadFolder string `koanf:"download_folder"` // where exports land; empty means ~/Downloads

	// Google transliteration for Latin-script search queries
	GoogleTransliteration bool `koanf:"google_transliteration"`

	Search SearchConfig `koanf:"search"`
	Cache  CacheConfig  `koanf:"cache"`
}

// SearchConfig tunes the query pipeline.
type SearchConfig struct {
	DebounceMs int `koanf:"debounce_ms"` // query debounce; 0 disables, default 500
}

// CacheConfig tunes the audio blob cache.
type CacheConfig struct {
	MaxEntries int `koanf:"max_entries"` // cached blobs kept on disk (default 32)
}

const (
	defaultManifestURL = "https://huggingface.co/shethjenil/Jain-Songs/resolve/main/song_info.json"
	defaultAssetHost   = "https://huggingface.co/shethjenil/Jain-Songs/resolve/main"
	defaultArtist      = "Saiyam The Real Life"
)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		ManifestURL:           defaultManifestURL,
		AssetHost:             defaultAssetHost,
		FallbackArtist:        defaultArtist,
		GoogleTransliteration: true,
		Search:                SearchConfig{DebounceMs: 500},
		Cache:                 CacheConfig{MaxEntries: 32},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.AssetHost = strings.TrimSuffix(cfg.AssetHost, "/")

	if cfg.DownloadFolder != "" {
		cfg.DownloadFolder = expandPath(cfg.DownloadFolder)
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.DownloadFolder = filepath.Join(home, "Downloads")
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/sangeet/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sangeet", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
