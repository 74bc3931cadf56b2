package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

func seedNotices(h *harness, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, h.backend.AddNotice(model.Notice{Title: "实验通知", Content: "请按时提交", Type: 1}))
	}
	return ids
}

func TestNoticeAPI_UnreadCount(t *testing.T) {
	h := newHarness(t)
	seedNotices(h, 5)
	h.login(t, "student1")

	count, err := h.notices.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNoticeAPI_UnreadCountFailure(t *testing.T) {
	h := newHarness(t)
	h.login(t, "student1")
	h.backend.Fail(http.MethodGet, "/api/notices/unread_count/", http.StatusInternalServerError, `{"detail":"boom"}`)

	_, err := h.notices.UnreadCount(context.Background())
	require.Error(t, err)
	assert.Equal(t, "获取未读公告数量失败", err.Error())
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatus(err))
	assert.Equal(t, []string{"请求失败，请稍后再试"}, h.notifier.Messages())
}

func TestNoticeAPI_ForbiddenNotice(t *testing.T) {
	h := newHarness(t)
	h.login(t, "student1")

	_, err := h.notices.Create(context.Background(), model.NoticeInput{Title: "t", Content: "c", Type: 1})
	require.Error(t, err)
	assert.Equal(t, "创建公告失败", err.Error())
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, []string{"权限不足: 您没有执行该操作的权限。"}, h.notifier.Messages())
}

func TestNoticeAPI_ForbiddenWithoutDetail(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")
	h.backend.Fail(http.MethodDelete, "/api/notices/9/", http.StatusForbidden, `{}`)

	err := h.notices.Delete(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, "删除公告失败", err.Error())
	assert.Equal(t, []string{"权限不足: 无权限操作"}, h.notifier.Messages())
}

func TestNoticeAPI_TeacherCRUD(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")
	ctx := context.Background()

	created, err := h.notices.Create(ctx, model.NoticeInput{Title: "期中实验", Content: "下周三截止", Type: 2})
	require.NoError(t, err)
	assert.Equal(t, "teacher1", created.CreatedByName)

	updated, err := h.notices.Update(ctx, created.ID, model.NoticeInput{Title: "期中实验（延期）", Content: "下周五截止", Type: 2})
	require.NoError(t, err)
	assert.Equal(t, "期中实验（延期）", updated.Title)

	got, err := h.notices.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "下周五截止", got.Content)

	list, err := h.notices.List(ctx, model.NoticeFilter{Search: "延期", Type: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = h.notices.List(ctx, model.NoticeFilter{Type: 1})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, h.notices.Delete(ctx, created.ID))
	_, err = h.notices.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "获取公告详情失败", err.Error())
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}

func TestNoticeAPI_ListFailureUsesFixedMessage(t *testing.T) {
	h := newHarness(t)
	h.login(t, "student1")
	h.backend.Fail(http.MethodGet, "/api/notices/", http.StatusBadGateway, `{"message":"upstream"}`)

	_, err := h.notices.List(context.Background(), model.NoticeFilter{})
	require.Error(t, err)
	assert.Equal(t, "获取实验列表失败", err.Error())
}

func TestNoticeAPI_CreateValidation(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")

	_, err := h.notices.Create(context.Background(), model.NoticeInput{Content: "c"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, h.backend.Hits(http.MethodPost, "/api/notices/"))
}

func TestNoticeAPI_ConcurrentMarkAsRead(t *testing.T) {
	h := newHarness(t)
	ids := seedNotices(h, 2)
	h.login(t, "student1")

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = h.notices.MarkAsRead(context.Background(), id)
		}()
	}
	wg.Wait()

	for i, id := range ids {
		require.NoError(t, errs[i])
		assert.True(t, h.backend.IsRead("student1", id))
	}
	count, err := h.notices.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoticeAPI_MarkManyAsRead(t *testing.T) {
	h := newHarness(t)
	ids := seedNotices(h, 6)
	h.login(t, "student1")

	require.NoError(t, h.notices.MarkManyAsRead(context.Background(), ids))
	for _, id := range ids {
		assert.True(t, h.backend.IsRead("student1", id))
	}

	err := h.notices.MarkManyAsRead(context.Background(), []int64{ids[0], 9999})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}

func TestNoticeAPI_MarkAsReadSkipsTeachers(t *testing.T) {
	h := newHarness(t)
	ids := seedNotices(h, 1)
	h.login(t, "teacher1")

	require.NoError(t, h.notices.MarkAsRead(context.Background(), ids[0]))
	assert.Zero(t, h.backend.Hits(http.MethodPost, "/api/notices/"+itoa(ids[0])+"/mark_as_read/"))
	assert.False(t, h.backend.IsRead("teacher1", ids[0]))
}

func TestNoticeAPI_MarkAsReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		notices []string
	}{
		{"forbidden with detail", http.StatusForbidden, `{"detail":"只有学生可以标记公告为已读"}`, "只有学生可以标记公告为已读", nil},
		{"forbidden without detail", http.StatusForbidden, `{}`, "无权限操作", nil},
		{"server error with detail", http.StatusInternalServerError, `{"detail":"数据库错误"}`, "数据库错误", []string{"请求失败，请稍后再试"}},
		{"server error without detail", http.StatusInternalServerError, `{}`, "服务器内部错误", []string{"请求失败，请稍后再试"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ids := seedNotices(h, 1)
			h.login(t, "student1")
			h.backend.Fail(http.MethodPost, "/api/notices/"+itoa(ids[0])+"/mark_as_read/", tt.status, tt.body)

			err := h.notices.MarkAsRead(context.Background(), ids[0])
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.status, apperrors.GetStatus(err))
			assert.Equal(t, tt.notices, h.notifier.Messages())
		})
	}
}

func TestNoticeAPI_MarkAllAsRead(t *testing.T) {
	h := newHarness(t)
	ids := seedNotices(h, 3)
	h.login(t, "student1")

	require.NoError(t, h.notices.MarkAllAsRead(context.Background()))
	for _, id := range ids {
		assert.True(t, h.backend.IsRead("student1", id))
	}

	h.backend.Fail(http.MethodPost, "/api/notices/mark_all_read/", http.StatusInternalServerError, `{}`)
	err := h.notices.MarkAllAsRead(context.Background())
	assert.Equal(t, "标记所有公告为已读失败", apperrors.Message(err))
}
