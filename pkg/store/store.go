// Package store keeps named graph snapshots in a badger key-value store,
// encoded with MessagePack.
package store

import (
	"strings"

	"github.com/chazu/vumesh/pkg/vu"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// ErrNotFound is returned for a snapshot name that is not stored.
var ErrNotFound = errors.New("store: snapshot not found")

const keyPrefix = "snap/"

func key(name string) []byte { return []byte(keyPrefix + name) }

// Store is a handle on an open snapshot database. It is safe for
// concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens the database in dir, creating it if needed. An empty dir
// opens a private in-memory database.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if dir == "" {
		opts.InMemory = true
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %q", dir)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores snap under name, replacing any earlier snapshot.
func (s *Store) Save(name string, snap vu.Snapshot) error {
	if name == "" {
		return errors.New("store: empty snapshot name")
	}
	val := MarshalSnapshot(snap)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(name), val)
	})
	return errors.Wrapf(err, "store: save %q", name)
}

// Load returns the snapshot stored under name.
func (s *Store) Load(name string) (vu.Snapshot, error) {
	var snap vu.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			snap, err = UnmarshalSnapshot(val)
			return err
		})
	})
	if err != nil {
		return vu.Snapshot{}, errors.Wrapf(err, "store: load %q", name)
	}
	return snap, nil
}

// SaveGraph exports g and stores it under name.
func (s *Store) SaveGraph(name string, g *vu.Graph) error {
	return s.Save(name, g.Export())
}

// LoadGraph rebuilds the graph stored under name.
func (s *Store) LoadGraph(name string) (*vu.Graph, error) {
	snap, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	g, err := vu.Import(snap)
	if err != nil {
		return nil, errors.Wrapf(err, "store: load %q", name)
	}
	return g, nil
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(name)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key(name))
	})
	return errors.Wrapf(err, "store: delete %q", name)
}

// List returns the stored snapshot names in byte order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(keyPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "store: list")
	}
	return names, nil
}
