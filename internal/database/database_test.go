package database

import (
	"context"
	"testing"
)

func TestOpenMemoryRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM collections`).Scan(&n); err != nil {
		t.Fatalf("query collections: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty collections table, got %d rows", n)
	}
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/chorechamp.db"

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO collections (key, value) VALUES ('k', '"v"')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	// Reopening must not re-run the initial migration.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var value string
	if err := db.QueryRow(`SELECT value FROM collections WHERE key = 'k'`).Scan(&value); err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != `"v"` {
		t.Errorf("value = %q, want %q", value, `"v"`)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	v, err := SchemaVersion(context.Background(), db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}
