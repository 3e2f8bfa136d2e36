package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// CollectionStore persists named collections as JSON documents, one row per key.
type CollectionStore struct {
	db *sql.DB
}

func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// Load decodes the collection stored under key into dst, which must be a
// non-nil pointer. dst is left untouched when the key has never been saved or
// the stored value cannot be decoded.
func (s *CollectionStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load collection %q: %w", key, err)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("load collection %q: destination must be a non-nil pointer", key)
	}
	// Unmarshal keeps filling past a type error, so decode into a fresh value.
	fresh := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal([]byte(raw), fresh.Interface()); err != nil {
		return false, fmt.Errorf("decode collection %q: %w", key, err)
	}
	rv.Elem().Set(fresh.Elem())
	return true, nil
}

// Save overwrites the collection stored under key.
func (s *CollectionStore) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save collection %q: %w", key, err)
	}
	return nil
}

func (s *CollectionStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM collections ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list collection keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan collection key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Snapshot returns every stored collection keyed by name.
func (s *CollectionStore) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM collections ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("snapshot collections: %w", err)
	}
	defer rows.Close()

	snap := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		snap[key] = json.RawMessage(value)
	}
	return snap, rows.Err()
}

// Restore replaces all stored collections with snap in a single transaction.
func (s *CollectionStore) Restore(ctx context.Context, snap map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}

	now := time.Now().UTC()
	for key, value := range snap {
		if !json.Valid(value) {
			return fmt.Errorf("restore collection %q: invalid JSON", key)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)`,
			key, string(value), now,
		); err != nil {
			return fmt.Errorf("restore collection %q: %w", key, err)
		}
	}
	return tx.Commit()
}
