package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/udisondev/mixkey/internal/constants"
)

// ContextWithTimeout создаёт context с timeout и отменяет его при завершении теста.
// Нулевой timeout означает constants.TestContextTimeout.
func ContextWithTimeout(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = constants.TestContextTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// ContextWithCancel создаёт отменяемый context; отмена также выполняется при завершении теста.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}
