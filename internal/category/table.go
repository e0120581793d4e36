// Package category holds the static table mapping category keys to labels.
// The table is loaded once at startup and never sent to the remote source.
package category

import (
	_ "embed"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed categories.toml
var defaultTable []byte

// Label is the pair of display strings for one key.
type Label struct {
	JP string `toml:"jp"`
	EN string `toml:"en"`
}

// Table is immutable after construction.
type Table struct {
	labels map[string]Label
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded category table: %v", err))
	}
	return t
}

// Parse decodes a TOML table of [key] sections with jp and en labels.
func Parse(data []byte) (*Table, error) {
	raw := map[string]Label{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse category table: %w", err)
	}
	labels := make(map[string]Label, len(raw))
	for key, l := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		labels[key] = l
	}
	return &Table{labels: labels}, nil
}

// Lookup returns the labels for key.
func (t *Table) Lookup(key string) (Label, bool) {
	if t == nil {
		return Label{}, false
	}
	l, ok := t.labels[key]
	return l, ok
}

// Label returns the label of key for lang, or key itself when unknown.
func (t *Table) Label(key, lang string) string {
	l, ok := t.Lookup(key)
	if !ok {
		return key
	}
	if lang == "en" {
		return l.EN
	}
	return l.JP
}

// Len reports how many keys the table knows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.labels)
}
