package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

// QuestionSetAPI calls the experiment question set endpoints.
// Every failure is reported with a fixed message.
type QuestionSetAPI struct {
	client *client.Client
}

// NewQuestionSetAPI constructs a QuestionSetAPI.
func NewQuestionSetAPI(c *client.Client) *QuestionSetAPI {
	return &QuestionSetAPI{client: c}
}

func (q *QuestionSetAPI) List(ctx context.Context) ([]model.QuestionSet, error) {
	var out []model.QuestionSet
	if err := q.client.Do(ctx, client.Request{Path: "experiments/sets/"}, &out); err != nil {
		return nil, apperrors.Relabel(err, "获取实验列表失败")
	}
	return out, nil
}

func (q *QuestionSetAPI) Get(ctx context.Context, id int64) (model.QuestionSet, error) {
	var out model.QuestionSet
	if err := q.client.Do(ctx, client.Request{Path: setPath(id)}, &out); err != nil {
		return model.QuestionSet{}, apperrors.Relabel(err, "获取实验详情失败")
	}
	return out, nil
}

func (q *QuestionSetAPI) Create(ctx context.Context, in model.QuestionSet) (model.QuestionSet, error) {
	if err := validatePayload(in); err != nil {
		return model.QuestionSet{}, err
	}
	in.ID = 0
	var out model.QuestionSet
	err := q.client.Do(ctx, client.Request{Method: http.MethodPost, Path: "experiments/sets/", Body: in}, &out)
	if err != nil {
		return model.QuestionSet{}, apperrors.Relabel(err, "创建实验失败")
	}
	return out, nil
}

func (q *QuestionSetAPI) Update(ctx context.Context, id int64, in model.QuestionSet) (model.QuestionSet, error) {
	if err := validatePayload(in); err != nil {
		return model.QuestionSet{}, err
	}
	var out model.QuestionSet
	err := q.client.Do(ctx, client.Request{Method: http.MethodPut, Path: setPath(id), Body: in}, &out)
	if err != nil {
		return model.QuestionSet{}, apperrors.Relabel(err, "更新实验失败")
	}
	return out, nil
}

func (q *QuestionSetAPI) Delete(ctx context.Context, id int64) error {
	err := q.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: setPath(id)}, nil)
	if err != nil {
		return apperrors.Relabel(err, "删除实验失败")
	}
	return nil
}

func setPath(id int64) string {
	return fmt.Sprintf("experiments/sets/%d/", id)
}
