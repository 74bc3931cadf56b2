package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

func TestSubmissionAPI_List(t *testing.T) {
	h := newHarness(t)
	student, _ := h.backend.User("student1")
	h.backend.AddSubmission(model.Submission{
		ID: 1, StudentID: student.ID, StudentName: "student1", SetID: 7, SetTitle: "实验二",
		Deadline: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), SubmittedAt: time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC),
		Passed: true,
	})
	h.backend.AddSubmission(model.Submission{ID: 2, StudentID: 999, StudentName: "other", SetID: 7})

	h.login(t, "student1")
	subs, err := h.submissions.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Passed)
	assert.Equal(t, "实验二", subs[0].SetTitle)

	h.login(t, "teacher1")
	subs, err = h.submissions.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmissionAPI_Failure(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")
	h.backend.Fail(http.MethodGet, "/api/experiments/submissions/", http.StatusInternalServerError, ``)

	_, err := h.submissions.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "获取提交记录失败", apperrors.Message(err))
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatus(err))
}
