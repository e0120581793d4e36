package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Merge policies for background like refreshes.
const (
	MergeReplace     = "replace"
	MergeKeepPending = "keep-pending"
)

// Config captures everything promptdeck reads from config.toml.
type Config struct {
	SiteURL      string
	Endpoint     string
	PollInterval time.Duration
	LogDir       string
	LogLevel     string
	PrefsBackend string
	PrefsPath    string
	MetricsAddr  string
	LikesMerge   string
	LikeRate     float64
	LikeBurst    int
}

const (
	defaultConfigPath = "~/.config/promptdeck/config.toml"
	defaultLogDir     = "~/.local/share/promptdeck/logs"
	defaultSiteURL    = "https://ai-prompts.example.edu/"
	defaultEndpoint   = "https://script.google.com/macros/s/XXXXXXXX/exec"
	defaultPoll       = 60 * time.Second
	defaultLogLevel   = "info"
	defaultLikeRate   = 2.0
	defaultLikeBurst  = 5
)

// Load locates and parses the promptdeck config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		SiteURL      string  `toml:"site_url"`
		Endpoint     string  `toml:"endpoint"`
		PollSeconds  int     `toml:"poll_seconds"`
		LogDir       string  `toml:"log_dir"`
		LogLevel     string  `toml:"log_level"`
		PrefsBackend string  `toml:"prefs_backend"`
		PrefsPath    string  `toml:"prefs_path"`
		MetricsAddr  string  `toml:"metrics_addr"`
		LikesMerge   string  `toml:"likes_merge"`
		LikeRate     float64 `toml:"like_rate_per_second"`
		LikeBurst    int     `toml:"like_burst"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.SiteURL); v != "" {
		cfg.SiteURL = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.PrefsBackend = strings.ToLower(strings.TrimSpace(raw.PrefsBackend))
	cfg.PrefsPath = strings.TrimSpace(raw.PrefsPath)
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	switch v := strings.ToLower(strings.TrimSpace(raw.LikesMerge)); v {
	case "":
	case MergeReplace, MergeKeepPending:
		cfg.LikesMerge = v
	default:
		return Config{}, fmt.Errorf("parse config: unknown likes_merge %q", raw.LikesMerge)
	}

	if raw.LikeRate > 0 {
		cfg.LikeRate = raw.LikeRate
	}
	if raw.LikeBurst > 0 {
		cfg.LikeBurst = raw.LikeBurst
	}

	return cfg, nil
}

// LogPath returns the path to the promptdeck log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/promptdeck.log")
	}
	return filepath.Join(c.LogDir, "promptdeck.log")
}

func defaults() Config {
	return Config{
		SiteURL:      defaultSiteURL,
		Endpoint:     defaultEndpoint,
		PollInterval: defaultPoll,
		LogDir:       mustExpand(defaultLogDir),
		LogLevel:     defaultLogLevel,
		LikesMerge:   MergeReplace,
		LikeRate:     defaultLikeRate,
		LikeBurst:    defaultLikeBurst,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
