package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/pacosako/engine/internal/book"
	"github.com/pacosako/engine/internal/matchsync"
	"github.com/pacosako/engine/internal/paco"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "pacosako-storage-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbDir := filepath.Join(tmpDir, "db")
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Storage{db: db}
}

func TestSaveAndLoadMatch(t *testing.T) {
	s := openTestStorage(t)

	record := matchsync.Record{
		ActionHistory: []paco.Action{paco.Lift(paco.D2), paco.Place(paco.D4)},
		Setup:         matchsync.DefaultSetupOptions(),
		WhitePlayer:   "alice",
	}
	if err := s.SaveMatch("game-1", record); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	loaded, ok, err := s.LoadMatch("game-1")
	if err != nil {
		t.Fatalf("LoadMatch: %v", err)
	}
	if !ok {
		t.Fatalf("expected the match to be found")
	}
	if len(loaded.ActionHistory) != 2 || loaded.WhitePlayer != "alice" {
		t.Fatalf("unexpected loaded record: %+v", loaded)
	}

	keys, err := s.ListMatchKeys()
	if err != nil {
		t.Fatalf("ListMatchKeys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "game-1" {
		t.Fatalf("expected [game-1], got %v", keys)
	}

	if err := s.DeleteMatch("game-1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, ok, err := s.LoadMatch("game-1"); err != nil || ok {
		t.Fatalf("expected the match to be gone after delete, ok=%v err=%v", ok, err)
	}
}

func TestLoadMissingMatch(t *testing.T) {
	s := openTestStorage(t)
	_, ok, err := s.LoadMatch("does-not-exist")
	if err != nil {
		t.Fatalf("LoadMatch: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a never-persisted match")
	}
}

func TestSaveAndLoadBook(t *testing.T) {
	s := openTestStorage(t)

	b := book.New()
	b.Add("startpos", book.PositionData{
		PositionValue: 0.1,
		Suggestions:   []book.ChainData{{Value: 0.2, Actions: []paco.Action{paco.Lift(paco.D2)}}},
	})

	if err := s.SaveBook(b); err != nil {
		t.Fatalf("SaveBook: %v", err)
	}

	loaded, err := s.LoadBook()
	if err != nil {
		t.Fatalf("LoadBook: %v", err)
	}
	if loaded.Size() != 1 {
		t.Fatalf("expected one position in the reloaded book, got %d", loaded.Size())
	}
}

func TestLoadBookWhenNoneSaved(t *testing.T) {
	s := openTestStorage(t)
	b, err := s.LoadBook()
	if err != nil {
		t.Fatalf("LoadBook: %v", err)
	}
	if b.Size() != 0 {
		t.Fatalf("expected an empty book, got size %d", b.Size())
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
	t.Logf("data directory: %s", dataDir)
}
