package btreego

import (
	"errors"
	"fmt"

	"github.com/hupe1980/btreego/bptree"
	"github.com/hupe1980/btreego/persistence"
)

var (
	// ErrNotFound is returned when a key does not exist in a table.
	ErrNotFound = errors.New("key not found")

	// ErrTableNotFound is returned when the catalog has no table with the
	// requested name.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableExists is returned when creating a table whose name is taken.
	ErrTableExists = errors.New("table already exists")

	// ErrInvalidTableName is returned when a table name is empty.
	ErrInvalidTableName = errors.New("invalid table name")

	// ErrInvalidKey is returned when an operation receives the zero Key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidOrder is returned when a tree order below the minimum is
	// requested. It aliases bptree.ErrInvalidOrder so both match.
	ErrInvalidOrder = bptree.ErrInvalidOrder

	// ErrClosed is returned when an operation is attempted on a closed
	// database.
	ErrClosed = errors.New("database is closed")

	// ErrNoStore is returned by Save and Open when no blob store is
	// configured. It aliases persistence.ErrNoStore so both match.
	ErrNoStore = persistence.ErrNoStore
)

// ErrOrderTooSmall reports a requested tree order below bptree.MinOrder.
type ErrOrderTooSmall struct {
	Order int
	cause error
}

func (e *ErrOrderTooSmall) Error() string {
	return fmt.Sprintf("invalid order %d: minimum is %d", e.Order, bptree.MinOrder)
}

func (e *ErrOrderTooSmall) Unwrap() error {
	return e.cause
}

// translateError maps internal errors onto the exported facade errors so
// callers only need errors.Is against the sentinels above.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, persistence.ErrManagerClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}
