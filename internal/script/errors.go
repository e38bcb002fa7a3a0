package script

import "errors"

// Errors for script engine operations.
var (
	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrNotCallable is returned when a script passes a value that is
	// neither a table nor a function where a delta is expected.
	ErrNotCallable = errors.New("delta must be a table or function")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrInstructionLimit is returned when the instruction limit is exceeded.
	ErrInstructionLimit = errors.New("lua instruction limit exceeded")
)
