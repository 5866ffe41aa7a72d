package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned when a store is used before Open.
	ErrNotOpen = errors.New("store not opened")

	// ErrPopulated is returned when Init would destroy existing rows
	// and force was not set.
	ErrPopulated = errors.New("database holds existing rows")
)

// ConnectError wraps a failure to reach the engine or open the handle.
type ConnectError struct {
	Err error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectError) Unwrap() error {
	return e.Err
}

// SchemaError wraps a DDL statement the engine rejected.
type SchemaError struct {
	Stmt string
	Err  error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %v\nStatement: %s", e.Err, e.Stmt)
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}
