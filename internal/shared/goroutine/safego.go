// Package goroutine launches background work that must never take the process down.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// SafeGo runs fn in a goroutine and logs a recovered panic with its stack.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// SafeGoWithTimeout is SafeGo with a fresh context bounded by timeout. It is
// used for post-commit side effects that must outlive the request context.
func SafeGoWithTimeout(log logger.Interface, name string, timeout time.Duration, fn func(ctx context.Context)) {
	SafeGo(log, name, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fn(ctx)
	})
}
