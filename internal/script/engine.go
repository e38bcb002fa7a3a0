package script

import (
	"context"
	"errors"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statevault/internal/engine/version"
)

// Default limits for script execution.
const (
	DefaultExecutionTimeout = 5 * time.Second // Best-effort wall-clock bound
	DefaultInstructionLimit = 10_000_000      // Maximum VM instructions per execution
)

// Engine owns a sandboxed Lua runtime bound to one state container.
//
// IMPORTANT: gopher-lua's LState is not goroutine-safe. All Engine
// operations must be called from a single goroutine, or external
// synchronization must be used.
type Engine struct {
	L      *lua.LState
	bridge *Bridge
	state  *version.State

	// Configuration
	timeout          time.Duration // Best-effort timeout per execution
	instructionLimit int64

	// Tracking
	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutionTimeout sets the execution timeout for script calls.
// NOTE: This is a best-effort timeout enforced via context; Lua code can
// only be interrupted at instruction boundaries.
func WithExecutionTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithInstructionLimit sets the maximum VM instructions per execution.
// A limit <= 0 disables instruction counting.
func WithInstructionLimit(limit int64) Option {
	return func(e *Engine) {
		e.instructionLimit = limit
	}
}

// NewEngine creates a sandboxed Lua engine bound to the given container.
func NewEngine(st *version.State, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, errors.New("script: nil state")
	}

	eng := &Engine{
		state:            st,
		timeout:          DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
	}

	// Apply options
	for _, opt := range opts {
		opt(eng)
	}

	// Create Lua state with limited libraries
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	eng.L = L
	eng.bridge = NewBridge(L)

	openSafeLibraries(L)

	if err := registerModule(L, eng.bridge, st); err != nil {
		L.Close()
		return nil, err
	}

	return eng, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	// Open safe libraries
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: These are intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can bypass sandbox)
	// - package (can load arbitrary modules)
}

// DoString executes a Lua chunk. Execution is synchronous.
func (e *Engine) DoString(code string) error {
	if e.closed {
		return ErrEngineClosed
	}
	return e.doWithRecovery(func() error {
		return e.L.DoString(code)
	})
}

// DoFile executes a Lua file. Execution is synchronous.
func (e *Engine) DoFile(path string) error {
	if e.closed {
		return ErrEngineClosed
	}
	return e.doWithRecovery(func() error {
		return e.L.DoFile(path)
	})
}

// doWithRecovery runs a Lua operation with resource limits and panic recovery.
func (e *Engine) doWithRecovery(fn func() error) (err error) {
	parent := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		parent, cancel = context.WithTimeout(parent, e.timeout)
		defer cancel()
	}

	// The sandbox rides the interpreter's context polling to count
	// instructions, so it must be the installed context.
	sandbox := NewSandbox(parent, e.instructionLimit)
	e.L.SetContext(sandbox)
	defer e.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = errors.New("lua panic")
			}
		}
		if err == nil {
			return
		}
		// The interpreter reports cancellation as a plain Lua error
		// string, so recover the sentinel from the cause.
		switch {
		case sandbox.Exceeded():
			err = ErrInstructionLimit
		case errors.Is(parent.Err(), context.DeadlineExceeded):
			err = ErrExecutionTimeout
		}
	}()

	return fn()
}

// State returns the bound state container.
func (e *Engine) State() *version.State {
	return e.state
}

// Close releases the Lua runtime. The engine cannot be used afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}
