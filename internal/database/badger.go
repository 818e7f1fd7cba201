package database

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens (creating if needed) the embedded document store at path.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", path, err)
	}
	return db, nil
}
