package store

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var errClosed = errors.New("store closed")

// ValidationError reports caller data that violates an entity invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConstraintError reports a write the database engine rejected: a missing
// referenced row, a NOT NULL, UNIQUE or CHECK violation.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: constraint violation: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// InitializationError reports a failure to open or migrate the database.
type InitializationError struct {
	Step string
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize database: %s: %v", e.Step, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// wrap tags engine constraint failures as *ConstraintError and adds op
// context to everything else.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConstraint(err) {
		return &ConstraintError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
