package script

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Sandbox bounds a single script execution by VM instruction count.
//
// It implements context.Context. gopher-lua polls the installed context's
// Done channel once per VM instruction, so each Done call corresponds to
// one executed instruction. Once the count passes the limit the channel
// closes and the interpreter stops at the next instruction boundary with
// ErrInstructionLimit. A Sandbox is single-use: create a fresh one per
// execution.
type Sandbox struct {
	parent context.Context
	limit  int64 // <= 0 disables counting
	count  int64
	once   sync.Once
	done   chan struct{}
}

// NewSandbox creates a sandbox over the parent context with the given
// instruction limit.
func NewSandbox(parent context.Context, limit int64) *Sandbox {
	return &Sandbox{
		parent: parent,
		limit:  limit,
		done:   make(chan struct{}),
	}
}

// Done counts one instruction and returns the cancellation channel.
func (s *Sandbox) Done() <-chan struct{} {
	if s.limit > 0 && atomic.AddInt64(&s.count, 1) > s.limit {
		s.once.Do(func() { close(s.done) })
		return s.done
	}
	return s.parent.Done()
}

// Err returns ErrInstructionLimit once the limit is exceeded, otherwise
// the parent's error.
func (s *Sandbox) Err() error {
	if s.Exceeded() {
		return ErrInstructionLimit
	}
	return s.parent.Err()
}

// Deadline reports the parent's deadline.
func (s *Sandbox) Deadline() (time.Time, bool) {
	return s.parent.Deadline()
}

// Value reports the parent's value for key.
func (s *Sandbox) Value(key any) any {
	return s.parent.Value(key)
}

// InstructionCount returns the number of instructions counted so far.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.count)
}

// Exceeded reports whether the instruction limit has been exceeded.
func (s *Sandbox) Exceeded() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
