package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/redis/go-redis/v9"
)

// DraftRepository keeps analysis results until the user saves them
type DraftRepository interface {
	SaveDraft(ctx context.Context, draft *types.AnalysisDraft) error
	GetDraft(ctx context.Context, id string) (*types.AnalysisDraft, error)
	DeleteDraft(ctx context.Context, id string) error
	// TakeDraft returns and removes a draft in one step, so only one caller
	// can claim it
	TakeDraft(ctx context.Context, id string) (*types.AnalysisDraft, error)
	// RestoreDraft puts a taken draft back under its own id
	RestoreDraft(ctx context.Context, draft *types.AnalysisDraft) error
}

// DraftStore is the Redis-backed DraftRepository
type DraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ DraftRepository = (*DraftStore)(nil)

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{redis: client, ttl: ttl}
}

func draftKey(id string) string {
	return fmt.Sprintf("analysis:draft:%s", id)
}

// SaveDraft assigns an id and stores the draft with the configured TTL
func (s *DraftStore) SaveDraft(ctx context.Context, draft *types.AnalysisDraft) error {
	draft.ID = uuid.New().String()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft returns ErrDraftNotFound for unknown or expired ids
func (s *DraftStore) GetDraft(ctx context.Context, id string) (*types.AnalysisDraft, error) {
	return decodeDraft(s.redis.Get(ctx, draftKey(id)).Bytes())
}

// TakeDraft uses GETDEL, so concurrent saves of one draft see it once
func (s *DraftStore) TakeDraft(ctx context.Context, id string) (*types.AnalysisDraft, error) {
	return decodeDraft(s.redis.GetDel(ctx, draftKey(id)).Bytes())
}

// RestoreDraft stores a taken draft again with a fresh TTL
func (s *DraftStore) RestoreDraft(ctx context.Context, draft *types.AnalysisDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to restore draft in Redis: %w", err)
	}
	return nil
}

func decodeDraft(data []byte, err error) (*types.AnalysisDraft, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft types.AnalysisDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes a draft
func (s *DraftStore) DeleteDraft(ctx context.Context, id string) error {
	n, err := s.redis.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}
