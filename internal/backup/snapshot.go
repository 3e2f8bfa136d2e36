// Package backup exports and imports every persisted collection as one
// passphrase-encrypted snapshot.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Source is read from when exporting.
type Source interface {
	Snapshot(ctx context.Context) (map[string]json.RawMessage, error)
}

// Target replaces all collections when importing.
type Target interface {
	Restore(ctx context.Context, snap map[string]json.RawMessage) error
}

// Export writes an encrypted snapshot of src to w and returns the number of
// collections it holds.
func Export(ctx context.Context, src Source, w io.Writer, passphrase string) (int, error) {
	if passphrase == "" {
		return 0, errors.New("passphrase is required")
	}

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("read collections: %w", err)
	}
	plaintext, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	enc, err := Encrypt(plaintext, passphrase)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(enc); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(snap), nil
}

// Import decrypts the snapshot in r and replaces every collection in dst with
// its contents. Nothing is changed when decryption or decoding fails.
func Import(ctx context.Context, dst Target, r io.Reader, passphrase string) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read snapshot: %w", err)
	}

	plaintext, err := Decrypt(data, passphrase)
	if err != nil {
		return 0, err
	}

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(snap) == 0 {
		return 0, errors.New("snapshot holds no collections")
	}

	if err := dst.Restore(ctx, snap); err != nil {
		return 0, fmt.Errorf("restore collections: %w", err)
	}
	return len(snap), nil
}
