// Package ddblocal is a DynamoDB-compatible store backed by BadgerDB.
// It covers the operations and the expression subset this service
// generates, and serves two roles: the backing store for local
// development mode, and the substitute store in repository tests.
package ddblocal

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/resumetry/backend/internal/table"
)

type Store struct {
	db  *badger.DB
	def table.Definition
}

// Options configures the BadgerDB engine.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
}

// Open creates the store for a single table definition.
func Open(opts Options, def table.Definition) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &Store{db: db, def: def}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) checkTable(tableName *string) error {
	if tableName == nil {
		return fmt.Errorf("table name is required")
	}
	if *tableName != s.def.Name {
		return fmt.Errorf("table not found: %s", *tableName)
	}
	return nil
}
