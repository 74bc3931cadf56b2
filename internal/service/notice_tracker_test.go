package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUnread struct {
	count     int
	err       error
	markCalls int
	markErr   error
}

func (f *fakeUnread) UnreadCount(context.Context) (int, error) { return f.count, f.err }

func (f *fakeUnread) MarkAllAsRead(context.Context) error {
	f.markCalls++
	return f.markErr
}

func TestNoticeTracker_RefreshPublishes(t *testing.T) {
	src := &fakeUnread{count: 5}
	tr := NewNoticeTracker(src, nil)
	var seen []int
	tr.OnChange(func(n int) { seen = append(seen, n) })

	n, err := tr.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, tr.Count())
	assert.True(t, tr.Initialized())
	assert.Equal(t, []int{5}, seen)
}

func TestNoticeTracker_RefreshFailureResets(t *testing.T) {
	src := &fakeUnread{count: 3}
	tr := NewNoticeTracker(src, nil)
	_, err := tr.Refresh(context.Background())
	require.NoError(t, err)

	src.err = errors.New("获取未读公告数量失败")
	_, err = tr.Refresh(context.Background())
	require.Error(t, err)
	assert.Zero(t, tr.Count())
}

func TestNoticeTracker_MarkAllAsRead(t *testing.T) {
	src := &fakeUnread{}
	tr := NewNoticeTracker(src, nil)
	var seen []int
	tr.OnChange(func(n int) { seen = append(seen, n) })

	require.NoError(t, tr.MarkAllAsRead(context.Background()))
	assert.Zero(t, src.markCalls, "nothing unread, no call")

	src.count = 2
	_, err := tr.Refresh(context.Background())
	require.NoError(t, err)

	src.markErr = errors.New("标记所有公告为已读失败")
	require.Error(t, tr.MarkAllAsRead(context.Background()))
	assert.Equal(t, 2, tr.Count())

	src.markErr = nil
	require.NoError(t, tr.MarkAllAsRead(context.Background()))
	assert.Zero(t, tr.Count())
	assert.Equal(t, 2, src.markCalls)
	assert.Equal(t, []int{2, 0}, seen)
}

func TestNoticeTracker_AgainstBackend(t *testing.T) {
	h := newHarness(t)
	seedNotices(h, 4)
	h.login(t, "student1")
	tr := NewNoticeTracker(h.notices, nil)

	n, err := tr.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, tr.MarkAllAsRead(context.Background()))
	n, err = tr.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
