package codegen

import "errors"

var (
	// ErrCancelled is returned by a Dialog that was dismissed. Generators
	// treat it as a clean no-op.
	ErrCancelled = errors.New("generation cancelled")

	// ErrNoEnclosingScope means the caret is not inside a scope the
	// command can insert into.
	ErrNoEnclosingScope = errors.New("no enclosing scope at caret")

	ErrInvalidSpecification = errors.New("invalid specification")

	ErrUnresolved = errors.New("unresolved")
)
