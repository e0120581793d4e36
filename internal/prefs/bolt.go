package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketPrefs = []byte("prefs")

	keyTheme = []byte("theme")
	keyLang  = []byte("lang")
	keyRole  = []byte("role")
	keyLikes = []byte("likes")
)

// BoltStore implements Store backed by BoltDB. Each preference is its own
// key so they can be written independently.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a BoltDB database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrefs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Load implements Store.
func (s *BoltStore) Load() Prefs {
	var p Prefs
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		p.Theme = string(b.Get(keyTheme))
		p.Lang = string(b.Get(keyLang))
		p.Role = string(b.Get(keyRole))
		if v := b.Get(keyLikes); v != nil {
			return json.Unmarshal(v, &p.Likes)
		}
		return nil
	})
	if err != nil {
		return Defaults()
	}
	return normalize(p)
}

// Save implements Store.
func (s *BoltStore) Save(p Prefs) error {
	p = normalize(p)
	likes, err := json.Marshal(p.Likes)
	if err != nil {
		return fmt.Errorf("marshal likes: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		for _, kv := range []struct{ k, v []byte }{
			{keyTheme, []byte(p.Theme)},
			{keyLang, []byte(p.Lang)},
			{keyRole, []byte(p.Role)},
			{keyLikes, likes},
		} {
			if err := b.Put(kv.k, kv.v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying BoltDB.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
