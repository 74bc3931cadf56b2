package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

func sampleSet() model.QuestionSet {
	return model.QuestionSet{
		Title:    "实验二：排序",
		Deadline: "2026-11-01T23:59:00Z",
		Students: []int64{1},
		Questions: []model.Question{
			{Type: "choice", Prompt: "快速排序的平均复杂度？", CorrectAnswer: "B", Score: 5, Order: 1},
			{Type: "coding", Prompt: "实现归并排序", Score: 20, Order: 2, TestCases: []model.TestCase{{Input: "3 1 2", Output: "1 2 3"}}},
		},
	}
}

func TestQuestionSetAPI_CRUD(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")
	ctx := context.Background()

	created, err := h.sets.Create(ctx, sampleSet())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Questions, 2)
	assert.NotZero(t, created.Questions[1].ID)

	got, err := h.sets.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", got.Questions[1].TestCases[0].Output)

	changed := sampleSet()
	changed.Title = "实验二：排序（补交）"
	updated, err := h.sets.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, changed.Title, updated.Title)

	list, err := h.sets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, h.sets.Delete(ctx, created.ID))
	err = h.sets.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "删除实验失败", err.Error())
}

func TestQuestionSetAPI_FixedMessages(t *testing.T) {
	h := newHarness(t)
	h.login(t, "student1")
	ctx := context.Background()

	_, err := h.sets.Get(ctx, 404)
	assert.Equal(t, "获取实验详情失败", apperrors.Message(err))

	_, err = h.sets.Create(ctx, sampleSet())
	assert.Equal(t, "创建实验失败", apperrors.Message(err))
	assert.True(t, apperrors.IsForbidden(err))

	_, err = h.sets.Update(ctx, 1, sampleSet())
	assert.Equal(t, "更新实验失败", apperrors.Message(err))
}

func TestQuestionSetAPI_Validation(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")

	bad := sampleSet()
	bad.Questions[0].Type = "essay"
	_, err := h.sets.Create(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
