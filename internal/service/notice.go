package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

const (
	msgForbiddenPrefix = "权限不足: "
	msgNoPermission    = "无权限操作"
	msgServerError     = "服务器内部错误"
	msgRequestFailed   = "请求失败，请稍后再试"

	markConcurrency = 4
)

// RoleChecker reports the role of the current user.
type RoleChecker interface {
	IsStudent() bool
}

// NoticeAPIOptions groups dependencies for NoticeAPI.
type NoticeAPIOptions struct {
	Client   *client.Client
	Roles    RoleChecker
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// NoticeAPI calls the announcement endpoints. Failures are reported to the user
// through the Notifier before the fixed error is returned.
type NoticeAPI struct {
	client *client.Client
	// mark skips the 403 notice: MarkAsRead reports permission errors itself.
	mark   *client.Client
	roles  RoleChecker
	logger *slog.Logger
}

// NewNoticeAPI constructs a NoticeAPI.
func NewNoticeAPI(opts NoticeAPIOptions) *NoticeAPI {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notify := func(ctx context.Context, msg string) {
		if opts.Notifier != nil {
			opts.Notifier.Notify(ctx, ports.NoticeError, msg)
		}
	}

	failure := func(ctx context.Context, _ *apperrors.DomainError) { notify(ctx, msgRequestFailed) }
	base := opts.Client.Policy().WithFailureHandler(failure)
	withForbidden := base.WithStatusHandler(http.StatusForbidden, func(ctx context.Context, de *apperrors.DomainError) {
		detail := de.Detail
		if detail == "" {
			detail = msgNoPermission
		}
		notify(ctx, msgForbiddenPrefix+detail)
	})

	return &NoticeAPI{
		client: opts.Client.WithPolicy(withForbidden),
		mark:   opts.Client.WithPolicy(base.WithStatusHandler(http.StatusForbidden, func(context.Context, *apperrors.DomainError) {})),
		roles:  opts.Roles,
		logger: logger,
	}
}

// List returns notices matching f.
func (n *NoticeAPI) List(ctx context.Context, f model.NoticeFilter) ([]model.Notice, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Type != 0 {
		q.Set("type", strconv.Itoa(f.Type))
	}
	var out []model.Notice
	if err := n.client.Do(ctx, client.Request{Path: "notices/", Query: q}, &out); err != nil {
		return nil, apperrors.Relabel(err, "获取实验列表失败")
	}
	return out, nil
}

// Get returns one notice.
func (n *NoticeAPI) Get(ctx context.Context, id int64) (model.Notice, error) {
	var out model.Notice
	if err := n.client.Do(ctx, client.Request{Path: noticePath(id)}, &out); err != nil {
		return model.Notice{}, apperrors.Relabel(err, "获取公告详情失败")
	}
	return out, nil
}

// Create publishes a notice.
func (n *NoticeAPI) Create(ctx context.Context, in model.NoticeInput) (model.Notice, error) {
	if err := validatePayload(in); err != nil {
		return model.Notice{}, err
	}
	var out model.Notice
	err := n.client.Do(ctx, client.Request{Method: http.MethodPost, Path: "notices/", Body: in}, &out)
	if err != nil {
		return model.Notice{}, apperrors.Relabel(err, "创建公告失败")
	}
	return out, nil
}

// Update replaces a notice.
func (n *NoticeAPI) Update(ctx context.Context, id int64, in model.NoticeInput) (model.Notice, error) {
	if err := validatePayload(in); err != nil {
		return model.Notice{}, err
	}
	var out model.Notice
	err := n.client.Do(ctx, client.Request{Method: http.MethodPut, Path: noticePath(id), Body: in}, &out)
	if err != nil {
		return model.Notice{}, apperrors.Relabel(err, "更新公告失败")
	}
	return out, nil
}

// Delete removes a notice.
func (n *NoticeAPI) Delete(ctx context.Context, id int64) error {
	err := n.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: noticePath(id)}, nil)
	if err != nil {
		return apperrors.Relabel(err, "删除公告失败")
	}
	return nil
}

// UnreadCount returns the number of notices the current user has not read.
func (n *NoticeAPI) UnreadCount(ctx context.Context) (int, error) {
	var out model.UnreadCount
	if err := n.client.Do(ctx, client.Request{Path: "notices/unread_count/"}, &out); err != nil {
		return 0, apperrors.Relabel(err, "获取未读公告数量失败")
	}
	return out.Count, nil
}

// MarkAllAsRead marks every notice read for the current user.
func (n *NoticeAPI) MarkAllAsRead(ctx context.Context) error {
	err := n.client.Do(ctx, client.Request{Method: http.MethodPost, Path: "notices/mark_all_read/"}, nil)
	if err != nil {
		return apperrors.Relabel(err, "标记所有公告为已读失败")
	}
	return nil
}

// MarkAsRead marks one notice read. Only students track read state, so for any
// other user no request is sent.
func (n *NoticeAPI) MarkAsRead(ctx context.Context, id int64) error {
	if n.roles == nil || !n.roles.IsStudent() {
		n.logger.InfoContext(ctx, "skip mark as read for non-student", "notice_id", id)
		return nil
	}

	err := n.mark.Do(ctx, client.Request{Method: http.MethodPost, Path: noticePath(id) + "mark_as_read/"}, nil)
	if err == nil {
		return nil
	}
	n.logger.WarnContext(ctx, "mark notice as read failed", "notice_id", id, "status", apperrors.GetStatus(err), "error", err)

	switch status := apperrors.GetStatus(err); {
	case status == http.StatusForbidden:
		return detailOr(err, msgNoPermission)
	case status >= http.StatusInternalServerError:
		return detailOr(err, msgServerError)
	default:
		return err
	}
}

// MarkManyAsRead marks several notices read concurrently. Each call succeeds or
// fails on its own; the first error is returned after all calls finish.
func (n *NoticeAPI) MarkManyAsRead(ctx context.Context, ids []int64) error {
	var g errgroup.Group
	g.SetLimit(markConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			return n.MarkAsRead(ctx, id)
		})
	}
	return g.Wait()
}

func noticePath(id int64) string {
	return fmt.Sprintf("notices/%d/", id)
}

func detailOr(err error, fallback string) *apperrors.DomainError {
	var src apperrors.DomainError
	if de, ok := asDomainError(err); ok {
		src = *de
	}
	msg := src.Detail
	if msg == "" {
		msg = fallback
	}
	return &apperrors.DomainError{Code: src.Code, Message: msg, Status: src.Status, Detail: src.Detail, Cause: err}
}
