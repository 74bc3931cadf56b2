package service

import (
	"context"
	"log/slog"
	"sync"
)

// UnreadSource is the part of NoticeAPI the tracker depends on.
type UnreadSource interface {
	UnreadCount(ctx context.Context) (int, error)
	MarkAllAsRead(ctx context.Context) error
}

// NoticeTracker caches the unread notice count and tells listeners when it changes.
type NoticeTracker struct {
	api    UnreadSource
	logger *slog.Logger

	mu          sync.Mutex
	count       int
	initialized bool
	listeners   []func(count int)
}

// NewNoticeTracker constructs a NoticeTracker.
func NewNoticeTracker(api UnreadSource, logger *slog.Logger) *NoticeTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoticeTracker{api: api, logger: logger}
}

// OnChange registers fn to receive the new count after every refresh or reset.
func (t *NoticeTracker) OnChange(fn func(count int)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Count returns the cached unread count.
func (t *NoticeTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Initialized reports whether a refresh has succeeded at least once.
func (t *NoticeTracker) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

// Refresh fetches the unread count. On failure the cached count drops to zero
// and the error is returned.
func (t *NoticeTracker) Refresh(ctx context.Context) (int, error) {
	count, err := t.api.UnreadCount(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "fetch unread count", "error", err)
		t.mu.Lock()
		t.count = 0
		t.mu.Unlock()
		return 0, err
	}

	t.mu.Lock()
	t.count = count
	t.initialized = true
	t.mu.Unlock()
	t.publish(count)
	return count, nil
}

// MarkAllAsRead clears the unread count. The backend is only called when the
// cached count is positive.
func (t *NoticeTracker) MarkAllAsRead(ctx context.Context) error {
	if t.Count() <= 0 {
		return nil
	}
	if err := t.api.MarkAllAsRead(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	t.count = 0
	t.mu.Unlock()
	t.publish(0)
	return nil
}

func (t *NoticeTracker) publish(count int) {
	t.mu.Lock()
	listeners := append([]func(int){}, t.listeners...)
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(count)
	}
}
