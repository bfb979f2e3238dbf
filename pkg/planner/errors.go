package planner

import (
	"errors"
	"fmt"
)

// Validation failures reported by the builder API and by AStar.
var (
	ErrDuplicateSymbol    = errors.New("symbol already declared")
	ErrUnknownPredicate   = errors.New("unknown predicate")
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownObject      = errors.New("unknown object")
	ErrUnknownParameter   = errors.New("unknown action parameter")
	ErrDuplicateParameter = errors.New("action parameter already declared")
	ErrArityMismatch      = errors.New("wrong number of arguments")
	ErrInvalidPower       = errors.New("invalid critical path power")
)

// ErrSearchLimitReached indicates a search stopped at its configured node
// limit before finding a plan or proving there is none.
var ErrSearchLimitReached = errors.New("search limit reached")

// ValidationError reports a rejected builder or solver call. The call had no
// effect; anything recorded by earlier calls is kept.
type ValidationError struct {
	Op   string // operation that failed, e.g. "AddActionPrecond"
	Name string // offending symbol
	Err  error  // one of the Err* sentinels
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("planner: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("planner: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(op, name string, err error) error {
	return &ValidationError{Op: op, Name: name, Err: err}
}

func invalidf(op, name string, err error, format string, args ...any) error {
	return &ValidationError{Op: op, Name: name, Err: fmt.Errorf("%w: "+format, append([]any{err}, args...)...)}
}
