// Package prefs handles promptdeck user preferences persistence.
// Preferences are stored in ~/.config/promptdeck/prefs.toml by default, or in
// a bbolt database when the bolt backend is selected.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for promptdeck.
type Prefs struct {
	Theme string   `toml:"theme" json:"theme"`
	Lang  string   `toml:"lang" json:"lang"`
	Role  string   `toml:"role" json:"role"`
	Likes []string `toml:"likes" json:"likes"`
}

// Store persists Prefs. Load never fails; unreadable data yields defaults.
type Store interface {
	Load() Prefs
	Save(p Prefs) error
}

const (
	defaultPrefsPath = "~/.config/promptdeck/prefs.toml"
	defaultBoltPath  = "~/.config/promptdeck/prefs.db"
	defaultTheme     = "light"
	defaultLang      = "jp"
	defaultRole      = "faculty"
)

// Backend names accepted by Open.
const (
	BackendTOML = "toml"
	BackendBolt = "bolt"
)

// Defaults returns the preferences used on first start.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Lang: defaultLang, Role: defaultRole, Likes: []string{}}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Open returns the Store for backend. An empty backend selects TOML.
// The returned close func releases any underlying resources.
func Open(backend, path string) (Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendTOML:
		return FileStore{Path: path}, func() error { return nil }, nil
	case BackendBolt:
		if strings.TrimSpace(path) == "" {
			path = defaultBoltPath
		}
		resolved, err := expandPath(path)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve path: %w", err)
		}
		store, err := OpenBolt(resolved)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown prefs backend %q", backend)
	}
}

// FileStore keeps preferences in a TOML file.
type FileStore struct {
	Path string // empty uses DefaultPath
}

// Load implements Store.
func (f FileStore) Load() Prefs {
	p, _ := Load(f.Path)
	return p
}

// Save implements Store.
func (f FileStore) Save(p Prefs) error {
	return Save(f.Path, p)
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Defaults(), nil // Graceful degradation
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	return normalize(prefs), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// normalize fills empty fields with defaults and drops blank or duplicate likes.
func normalize(p Prefs) Prefs {
	if p.Theme = strings.TrimSpace(p.Theme); p.Theme != "dark" && p.Theme != "light" {
		p.Theme = defaultTheme
	}
	if p.Lang = strings.TrimSpace(p.Lang); p.Lang != "jp" && p.Lang != "en" {
		p.Lang = defaultLang
	}
	if p.Role = strings.TrimSpace(p.Role); p.Role == "" {
		p.Role = defaultRole
	}
	seen := make(map[string]struct{}, len(p.Likes))
	likes := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		likes = append(likes, id)
	}
	p.Likes = likes
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
