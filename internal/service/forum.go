package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

// ForumAPI calls the discussion forum endpoints. Errors carry the server or
// transport message unchanged.
type ForumAPI struct {
	client *client.Client
}

// NewForumAPI constructs a ForumAPI.
func NewForumAPI(c *client.Client) *ForumAPI {
	return &ForumAPI{client: c}
}

// ListQuestions returns all threads, sticky ones first as ordered by the backend.
func (f *ForumAPI) ListQuestions(ctx context.Context) ([]model.ForumQuestion, error) {
	var out []model.ForumQuestion
	if err := f.client.Do(ctx, client.Request{Path: "forum/questions/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuestion opens a thread.
func (f *ForumAPI) CreateQuestion(ctx context.Context, in model.ForumQuestionInput) (model.ForumQuestion, error) {
	if err := validatePayload(in); err != nil {
		return model.ForumQuestion{}, err
	}
	var out model.ForumQuestion
	err := f.client.Do(ctx, client.Request{Method: http.MethodPost, Path: "forum/questions/", Body: in}, &out)
	return out, err
}

// DeleteQuestion removes a thread.
func (f *ForumAPI) DeleteQuestion(ctx context.Context, id int64) error {
	return f.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: questionPath(id)}, nil)
}

// ToggleSticky pins or unpins a thread.
func (f *ForumAPI) ToggleSticky(ctx context.Context, id int64) (model.ForumQuestion, error) {
	var out model.ForumQuestion
	err := f.client.Do(ctx, client.Request{Method: http.MethodPatch, Path: questionPath(id) + "toggle-sticky/"}, &out)
	return out, err
}

// ToggleLike likes or unlikes a thread for the current user.
func (f *ForumAPI) ToggleLike(ctx context.Context, id int64) (model.ForumQuestion, error) {
	var out model.ForumQuestion
	err := f.client.Do(ctx, client.Request{Method: http.MethodPatch, Path: questionPath(id) + "toggle-like/"}, &out)
	return out, err
}

// AddComment replies to a thread.
func (f *ForumAPI) AddComment(ctx context.Context, questionID int64, content string) (model.ForumComment, error) {
	in := model.ForumCommentInput{Content: content}
	if err := validatePayload(in); err != nil {
		return model.ForumComment{}, err
	}
	var out model.ForumComment
	err := f.client.Do(ctx, client.Request{Method: http.MethodPost, Path: questionPath(questionID) + "comments/", Body: in}, &out)
	return out, err
}

// DeleteComment removes a comment.
func (f *ForumAPI) DeleteComment(ctx context.Context, id int64) error {
	return f.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: fmt.Sprintf("forum/comments/%d/", id)}, nil)
}

func questionPath(id int64) string {
	return fmt.Sprintf("forum/questions/%d/", id)
}
