package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

const (
	experimentProgressKey = "experimentProgress"
	codingProgressKey     = "codingProgress"
)

type experimentProgress map[int64]model.Progress

type codingState map[int64]map[int64]model.CodingProgress

// ProgressStoreOptions groups dependencies for ProgressStore.
type ProgressStoreOptions struct {
	Store  ports.KeyValueStore
	Logger *slog.Logger
	Now    func() time.Time
}

// ProgressStore keeps unsubmitted experiment answers and coding drafts on the client.
// Unreadable stored documents are treated as empty.
type ProgressStore struct {
	store  ports.KeyValueStore
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewProgressStore constructs a ProgressStore.
func NewProgressStore(opts ProgressStoreOptions) *ProgressStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ProgressStore{store: opts.Store, logger: logger, now: now}
}

// SaveProgress records the answers of an experiment, stamped with the current time.
func (p *ProgressStore) SaveProgress(ctx context.Context, experimentID int64, answers model.Answers) (model.Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := experimentProgress{}
	p.load(ctx, experimentProgressKey, &all)
	saved := model.Progress{Answers: answers, LastSaved: p.now().UTC()}
	all[experimentID] = saved
	if err := p.save(ctx, experimentProgressKey, all); err != nil {
		return model.Progress{}, err
	}
	return saved, nil
}

// LoadProgress returns the saved answers of an experiment.
func (p *ProgressStore) LoadProgress(ctx context.Context, experimentID int64) (model.Progress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := experimentProgress{}
	p.load(ctx, experimentProgressKey, &all)
	prog, ok := all[experimentID]
	return prog, ok
}

// ClearProgress forgets the saved answers of an experiment.
func (p *ProgressStore) ClearProgress(ctx context.Context, experimentID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := experimentProgress{}
	p.load(ctx, experimentProgressKey, &all)
	if _, ok := all[experimentID]; !ok {
		return nil
	}
	delete(all, experimentID)
	return p.save(ctx, experimentProgressKey, all)
}

// SaveCodingProgress records the editor state of one coding question.
func (p *ProgressStore) SaveCodingProgress(ctx context.Context, experimentID, questionID int64, data model.CodingProgress) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := codingState{}
	p.load(ctx, codingProgressKey, &state)
	if state[experimentID] == nil {
		state[experimentID] = map[int64]model.CodingProgress{}
	}
	if data.Timestamp.IsZero() {
		data.Timestamp = p.now().UTC()
	}
	state[experimentID][questionID] = data
	return p.save(ctx, codingProgressKey, state)
}

// LoadCodingProgress returns the saved editor state of one coding question.
func (p *ProgressStore) LoadCodingProgress(ctx context.Context, experimentID, questionID int64) (model.CodingProgress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := codingState{}
	p.load(ctx, codingProgressKey, &state)
	data, ok := state[experimentID][questionID]
	return data, ok
}

// ClearCodingProgress forgets the editor state of one coding question.
func (p *ProgressStore) ClearCodingProgress(ctx context.Context, experimentID, questionID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := codingState{}
	p.load(ctx, codingProgressKey, &state)
	questions, ok := state[experimentID]
	if !ok {
		return nil
	}
	delete(questions, questionID)
	return p.save(ctx, codingProgressKey, state)
}

func (p *ProgressStore) load(ctx context.Context, key string, dst any) {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.WarnContext(ctx, "read progress", "key", key, "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		p.logger.WarnContext(ctx, "discarding unreadable progress", "key", key, "error", err)
	}
}

func (p *ProgressStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
