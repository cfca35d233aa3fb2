// Package repository persists terminal judging results so tokens stay
// resolvable after the adapter's own retention window.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ataljudge/internal/common/cache"
	"ataljudge/internal/judge/model"
	appErr "ataljudge/pkg/errors"
)

const resultKeyPrefix = "judge:result:"

// StatusRepository stores normalized results in a cache with TTL.
type StatusRepository struct {
	cache cache.Cache
	TTL   time.Duration
}

// NewStatusRepository creates a new repository.
func NewStatusRepository(cacheClient cache.Cache, ttl time.Duration) *StatusRepository {
	return &StatusRepository{cache: cacheClient, TTL: ttl}
}

// Get returns the stored result for a submission token.
func (r *StatusRepository) Get(ctx context.Context, token string) (*model.UnifiedResponse, error) {
	if token == "" {
		return nil, appErr.ValidationError("token", "required")
	}
	if r.cache == nil {
		return nil, appErr.New(appErr.CacheError).WithMessage("cache client is not initialized")
	}
	val, err := r.cache.Get(ctx, resultKeyPrefix+token)
	if err != nil || val == "" {
		return nil, appErr.New(appErr.SubmissionNotFound).WithDetail("token", token)
	}
	var res model.UnifiedResponse
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, appErr.Wrapf(err, appErr.CacheError, "decode stored result failed")
	}
	return &res, nil
}

// Save persists a terminal result under its token.
func (r *StatusRepository) Save(ctx context.Context, res model.UnifiedResponse) error {
	if res.SubmissionID == "" {
		return appErr.ValidationError("submission_id", "required")
	}
	if r.cache == nil {
		return appErr.New(appErr.CacheError).WithMessage("cache client is not initialized")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result failed: %w", err)
	}
	if err := r.cache.Set(ctx, resultKeyPrefix+res.SubmissionID, string(data), r.TTL); err != nil {
		return appErr.Wrapf(err, appErr.CacheError, "store result failed")
	}
	return nil
}
