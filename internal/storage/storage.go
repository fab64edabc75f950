package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pacosako/engine/internal/book"
	"github.com/pacosako/engine/internal/matchsync"
)

// Key prefixes partition the single BadgerDB instance between the two kinds
// of record the server persists (spec §6 "Persisted match record").
const (
	matchPrefix = "match:"
	bookKey     = "opening-book"
)

// Storage wraps BadgerDB for persisting match records and the opening book
// across server restarts. Grounded on the teacher's internal/storage.go
// (View/Update closures over a single badger.DB), repurposed from the
// teacher's local single-player preferences/stats onto this server's match
// and opening-book domain.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the BadgerDB database under the
// platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch persists a match's record under its key.
func (s *Storage) SaveMatch(key string, record matchsync.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(matchPrefix+key), data)
	})
}

// LoadMatch loads a persisted match record by key. Returns ok=false if no
// such match was ever persisted (a fresh, never-started match, not an
// error; spec §7 "Persistence errors" are reserved for actual I/O failure).
func (s *Storage) LoadMatch(key string) (record matchsync.Record, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(matchPrefix + key))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	return record, ok, err
}

// DeleteMatch removes a match's persisted record, e.g. after it has been
// archived elsewhere.
func (s *Storage) DeleteMatch(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(matchPrefix + key))
	})
}

// ListMatchKeys returns every persisted match's key, for server-startup
// recovery of in-progress games.
func (s *Storage) ListMatchKeys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(matchPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			full := string(it.Item().Key())
			keys = append(keys, full[len(matchPrefix):])
		}
		return nil
	})
	return keys, err
}

// SaveBook persists the opening book as a single JSON blob.
func (s *Storage) SaveBook(b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(bookKey), data)
	})
}

// LoadBook loads the persisted opening book, or an empty book if none was
// ever saved.
func (s *Storage) LoadBook() (*book.Book, error) {
	b := book.New()
	err := s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(bookKey))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, b)
		})
	})
	return b, err
}
