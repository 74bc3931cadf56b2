package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func TestQuery_Apply(t *testing.T) {
	q := NewQuery(nil)
	notices := []model.Notice{
		{ID: 1, Title: "期中安排", IsTop: true},
		{ID: 2, Title: "作业提醒"},
	}

	t.Run("empty expression returns input", func(t *testing.T) {
		out, err := q.Apply("  ", notices)
		require.NoError(t, err)
		assert.Equal(t, notices, out)
	})

	t.Run("projection uses wire names", func(t *testing.T) {
		out, err := q.Apply("[?is_top].title", notices)
		require.NoError(t, err)
		assert.Equal(t, []any{"期中安排"}, out)
	})

	t.Run("length", func(t *testing.T) {
		out, err := q.Apply("length(@)", notices)
		require.NoError(t, err)
		assert.EqualValues(t, 2, out)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := q.Apply("[?", notices)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid query")
	})
}

type failingEvaluator struct{}

func (failingEvaluator) Validate(string) error { return nil }

func (failingEvaluator) Evaluate(string, any) (any, error) {
	return nil, errors.New("evaluator down")
}

func TestQuery_EvaluatorError(t *testing.T) {
	_, err := NewQuery(failingEvaluator{}).Apply("foo", map[string]int{"foo": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluator down")
}
