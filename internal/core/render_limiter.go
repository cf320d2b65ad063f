package core

// render_limiter.go implements concurrency control for map rendering.
//
// The limiter uses a semaphore pattern to restrict parallel renders to a
// configurable maximum, bounding the memory and CPU spent building marker
// sets under load. When all slots are occupied, new requests wait up to
// maxWait before failing with ErrTooManyRenders.
//
// The limiter also supports graceful shutdown via WaitForDrain, which blocks
// until all active renders complete.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRenders is returned when all render slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyRenders = errors.New("too many concurrent renders, please try again later")

// DefaultMaxConcurrentRenders is the default limit for parallel renders.
const DefaultMaxConcurrentRenders = 2

// DefaultMaxRenderWait is how long to wait for a slot before rejecting.
const DefaultMaxRenderWait = 15 * time.Second

// RenderLimiter controls concurrent map rendering using a semaphore pattern.
type RenderLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewRenderLimiter creates a limiter that allows at most maxConcurrent
// simultaneous renders. Requests that cannot acquire a slot within maxWait
// receive ErrTooManyRenders.
func NewRenderLimiter(maxConcurrent int, maxWait time.Duration) *RenderLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRenders
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxRenderWait
	}

	return &RenderLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a render slot.
// Returns nil on success, ErrTooManyRenders if the timeout expires.
// The caller MUST call Release() when the render completes (use defer).
func (l *RenderLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from slot timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyRenders

	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
// Returns true if a slot was acquired, false otherwise.
func (l *RenderLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *RenderLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently active renders.
func (l *RenderLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent renders.
func (l *RenderLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of available slots.
func (l *RenderLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active renders complete or the context is
// cancelled. Used for graceful shutdown.
func (l *RenderLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// RenderLimiterStatus is a snapshot of the limiter's current state.
type RenderLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for health reporting.
func (l *RenderLimiter) Status() RenderLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return RenderLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
