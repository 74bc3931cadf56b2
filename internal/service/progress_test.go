package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zdaf-zdaf/group-platform/internal/adapters/memstore"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	"github.com/zdaf-zdaf/group-platform/internal/mocks"
	"github.com/zdaf-zdaf/group-platform/internal/testutil"
)

func newProgressStore(t *testing.T) (*ProgressStore, *memstore.KeyValueStore) {
	t.Helper()
	kv := memstore.NewKeyValueStore()
	return NewProgressStore(ProgressStoreOptions{Store: kv, Now: testutil.TestTime}), kv
}

func TestProgressStore_ExperimentAnswers(t *testing.T) {
	ps, _ := newProgressStore(t)
	ctx := context.Background()

	_, ok := ps.LoadProgress(ctx, 7)
	assert.False(t, ok)

	answers := model.Answers{
		Choice: map[int64]string{1: "B"},
		Fill:   map[int64]string{2: "O(n log n)"},
		Coding: map[int64]string{3: "int main() {}"},
	}
	saved, err := ps.SaveProgress(ctx, 7, answers)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestTime(), saved.LastSaved)

	_, err = ps.SaveProgress(ctx, 8, model.Answers{Choice: map[int64]string{9: "A"}})
	require.NoError(t, err)

	got, ok := ps.LoadProgress(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, answers, got.Answers)

	require.NoError(t, ps.ClearProgress(ctx, 7))
	_, ok = ps.LoadProgress(ctx, 7)
	assert.False(t, ok)
	_, ok = ps.LoadProgress(ctx, 8)
	assert.True(t, ok, "other experiments are kept")

	require.NoError(t, ps.ClearProgress(ctx, 7), "clearing twice is a no-op")
}

func TestProgressStore_CodingDrafts(t *testing.T) {
	ps, _ := newProgressStore(t)
	ctx := context.Background()

	require.NoError(t, ps.SaveCodingProgress(ctx, 7, 3, model.CodingProgress{Code: "print(1)"}))
	stamped := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, ps.SaveCodingProgress(ctx, 7, 4, model.CodingProgress{Code: "print(2)", Timestamp: stamped}))

	draft, ok := ps.LoadCodingProgress(ctx, 7, 3)
	require.True(t, ok)
	assert.Equal(t, "print(1)", draft.Code)
	assert.Equal(t, testutil.TestTime(), draft.Timestamp)

	draft, ok = ps.LoadCodingProgress(ctx, 7, 4)
	require.True(t, ok)
	assert.Equal(t, stamped, draft.Timestamp)

	require.NoError(t, ps.ClearCodingProgress(ctx, 7, 3))
	_, ok = ps.LoadCodingProgress(ctx, 7, 3)
	assert.False(t, ok)
	_, ok = ps.LoadCodingProgress(ctx, 7, 4)
	assert.True(t, ok)

	require.NoError(t, ps.ClearCodingProgress(ctx, 99, 1))
}

func TestProgressStore_CorruptDocumentIsEmpty(t *testing.T) {
	ps, kv := newProgressStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, experimentProgressKey, []byte("{not json")))
	require.NoError(t, kv.Set(ctx, codingProgressKey, []byte(`"nope"`)))

	_, ok := ps.LoadProgress(ctx, 1)
	assert.False(t, ok)
	_, ok = ps.LoadCodingProgress(ctx, 1, 1)
	assert.False(t, ok)

	_, err := ps.SaveProgress(ctx, 1, model.Answers{})
	require.NoError(t, err)
	_, ok = ps.LoadProgress(ctx, 1)
	assert.True(t, ok, "saving replaces the unreadable document")
}

func TestProgressStore_StoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKeyValueStore(ctrl)
	ps := NewProgressStore(ProgressStoreOptions{Store: kv, Now: testutil.TestTime})
	ctx := context.Background()

	kv.EXPECT().Get(gomock.Any(), experimentProgressKey).Return(nil, errors.New("disk unavailable"))
	_, ok := ps.LoadProgress(ctx, 1)
	assert.False(t, ok, "read errors are treated as no saved progress")

	kv.EXPECT().Get(gomock.Any(), codingProgressKey).Return(nil, nil)
	kv.EXPECT().Set(gomock.Any(), codingProgressKey, gomock.Any()).Return(errors.New("quota exceeded"))
	err := ps.SaveCodingProgress(ctx, 1, 2, model.CodingProgress{Code: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
