package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/SweetyAngel/egerus/assets"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db, assets.Migrations()); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}
	if _, err := db.Exec(`INSERT INTO words(word, context) VALUES ('зАмок', '')`); err != nil {
		t.Fatalf("words table missing: %v", err)
	}
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (x INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE b (x INTEGER); NOT SQL AT ALL;`)},
	}
	if err := Migrate(db, fsys); err == nil {
		t.Fatal("expected error from broken migration")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='002_bad.sql'`).Scan(&n)
	if n != 0 {
		t.Fatal("broken migration must not be recorded")
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "words.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
