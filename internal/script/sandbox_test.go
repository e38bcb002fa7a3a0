package script

import (
	"context"
	"errors"
	"testing"
)

func TestSandboxCountsBelowLimit(t *testing.T) {
	sb := NewSandbox(context.Background(), 100)

	for i := 0; i < 100; i++ {
		sb.Done()
	}

	if sb.Exceeded() {
		t.Error("100 instructions should not exceed limit 100")
	}
	if got := sb.InstructionCount(); got != 100 {
		t.Errorf("InstructionCount = %d, want 100", got)
	}
	if err := sb.Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
}

func TestSandboxExceedsLimit(t *testing.T) {
	sb := NewSandbox(context.Background(), 100)

	for i := 0; i < 101; i++ {
		sb.Done()
	}

	if !sb.Exceeded() {
		t.Error("101 instructions should exceed limit 100")
	}
	select {
	case <-sb.Done():
	default:
		t.Error("Done channel should be closed after the limit")
	}
	if !errors.Is(sb.Err(), ErrInstructionLimit) {
		t.Errorf("Err = %v, want ErrInstructionLimit", sb.Err())
	}
}

func TestSandboxZeroLimitNeverExceeds(t *testing.T) {
	sb := NewSandbox(context.Background(), 0)

	for i := 0; i < 1000; i++ {
		sb.Done()
	}

	if sb.Exceeded() {
		t.Error("sandbox with limit 0 should never exceed")
	}
}

func TestSandboxReportsParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sb := NewSandbox(ctx, 100)

	cancel()

	select {
	case <-sb.Done():
	default:
		t.Error("Done channel should report parent cancellation")
	}
	if !errors.Is(sb.Err(), context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", sb.Err())
	}
}
