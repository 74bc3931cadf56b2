package service

import (
	"context"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

// SubmissionAPI reads graded experiment submissions.
type SubmissionAPI struct {
	client *client.Client
}

// NewSubmissionAPI constructs a SubmissionAPI.
func NewSubmissionAPI(c *client.Client) *SubmissionAPI {
	return &SubmissionAPI{client: c}
}

// List returns the submissions visible to the current user.
func (s *SubmissionAPI) List(ctx context.Context) ([]model.Submission, error) {
	var out []model.Submission
	if err := s.client.Do(ctx, client.Request{Path: "experiments/submissions/"}, &out); err != nil {
		return nil, apperrors.WithFallback(err, "获取提交记录失败")
	}
	return out, nil
}
