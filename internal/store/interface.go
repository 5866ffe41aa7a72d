package store

import (
	"context"

	"github.com/inkwell-db/inkwell/internal/models"
)

// State represents the schema state of the datastore.
type State int

const (
	StateMissing       State = iota // Database file doesn't exist (file-backed engines only)
	StateUninitialized              // Reachable but the blog schema is absent or incomplete
	StatePopulated                  // At least one blog table holds rows, even if the schema is partial
	StateReady                      // Schema present, both tables empty
)

// String returns the state name used in CLI output.
func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StatePopulated:
		return "populated"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Store is the contract every engine implements. Init is destructive:
// it drops the user and post tables and recreates them empty, so any
// prior rows are lost. Implementations must refuse to do that to a
// populated database unless force is set.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Open establishes the connection. Failures surface as *ConnectError.
	Open(ctx context.Context) error

	// Close releases the connection.
	Close() error

	// Init drops and recreates the blog schema. The user table is
	// created before post, which declares a foreign key on it.
	// Returns ErrPopulated when existing rows would be destroyed and
	// force is false; rejected DDL surfaces as *SchemaError.
	Init(ctx context.Context, force bool) error

	// CheckState reports the current schema state.
	CheckState(ctx context.Context) (State, error)

	// Counts returns the number of rows in the user and post tables.
	// Only valid once the schema exists.
	Counts(ctx context.Context) (users, posts int64, err error)

	// SeedDemo inserts one example user and one post by that user and
	// returns both rows as stored, including the engine-assigned ids
	// and the defaulted post timestamp.
	SeedDemo(ctx context.Context) (*models.User, *models.Post, error)
}
