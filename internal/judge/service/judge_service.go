// Package service exposes the unified judging facade: a single,
// backend-agnostic entry point over exactly one execution backend adapter.
// Callers never see backend status codes or token formats; only verdicts
// and plain fields cross this boundary.
package service

import (
	"context"
	"encoding/base64"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/model"
	"ataljudge/internal/judge/repository"
	"ataljudge/internal/judge/verdict"
	appErr "ataljudge/pkg/errors"
	"ataljudge/pkg/utils/logger"
)

const (
	defaultPollInterval    = 500 * time.Millisecond
	defaultMaxPollAttempts = 60
)

// Config holds facade dependencies and polling defaults.
type Config struct {
	// Adapter is the single execution backend, chosen by deployment
	// configuration rather than by callers.
	Adapter executor.Adapter
	// StatusRepo optionally persists terminal results; nil disables it.
	StatusRepo *repository.StatusRepository
	// PollInterval and MaxPollAttempts bound the wait loops when the
	// caller passes zero values.
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Service is the unified judging facade.
type Service struct {
	adapter      executor.Adapter
	statusRepo   *repository.StatusRepository
	pollInterval time.Duration
	maxAttempts  int
}

// NewService creates the facade over one adapter.
func NewService(cfg Config) (*Service, error) {
	if cfg.Adapter == nil {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("adapter is required")
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := cfg.MaxPollAttempts
	if attempts <= 0 {
		attempts = defaultMaxPollAttempts
	}
	return &Service{
		adapter:      cfg.Adapter,
		statusRepo:   cfg.StatusRepo,
		pollInterval: interval,
		maxAttempts:  attempts,
	}, nil
}

// Submit accepts a submission and returns its token without waiting for
// execution to finish.
func (s *Service) Submit(ctx context.Context, req executor.ExecutionRequest) (string, error) {
	token, err := s.adapter.CreateSubmission(ctx, req)
	if err != nil {
		return "", err
	}
	logger.Debug(ctx, "submission accepted",
		zap.String("token", token), zap.String("language", req.Language))
	return token, nil
}

// SubmitBatch accepts many submissions, returning tokens in input order.
func (s *Service) SubmitBatch(ctx context.Context, reqs []executor.ExecutionRequest) ([]string, error) {
	return s.adapter.CreateBatchSubmissions(ctx, reqs)
}

// SubmitCode submits and blocks through the wait loop, returning the
// normalized result. Terminal results are persisted when a status
// repository is configured.
func (s *Service) SubmitCode(ctx context.Context, req executor.ExecutionRequest) (*model.UnifiedResponse, error) {
	token, err := s.adapter.CreateSubmission(ctx, req)
	if err != nil {
		return nil, err
	}
	state, err := s.WaitForSubmission(ctx, token, s.maxAttempts, s.pollInterval)
	if err != nil {
		return nil, err
	}
	resp := toUnified(token, executor.ProcessResult(state, req.ExpectedOutput))
	s.persist(ctx, resp)
	return resp, nil
}

// GetSubmissionStatus returns the raw compatibility payload for one token.
func (s *Service) GetSubmissionStatus(ctx context.Context, token string) (*model.StatusPayload, error) {
	state, err := s.adapter.GetStatus(ctx, token)
	if err != nil {
		return nil, err
	}
	return toStatusPayload(state), nil
}

// GetResult returns the normalized result for a token that has reached a
// terminal state, serving from the status repository first when configured.
func (s *Service) GetResult(ctx context.Context, token string) (*model.UnifiedResponse, error) {
	if s.statusRepo != nil {
		if resp, err := s.statusRepo.Get(ctx, token); err == nil {
			return resp, nil
		}
	}
	state, err := s.adapter.GetStatus(ctx, token)
	if err != nil {
		return nil, err
	}
	if !verdict.IsTerminal(state.StatusID) {
		return nil, appErr.New(appErr.ResultNotReady).WithDetail("token", token)
	}
	resp := toUnified(token, executor.ProcessResult(state, nil))
	s.persist(ctx, resp)
	return resp, nil
}

// persist stores a terminal result; failure to persist is logged, not fatal.
func (s *Service) persist(ctx context.Context, resp *model.UnifiedResponse) {
	if s.statusRepo == nil {
		return
	}
	if err := s.statusRepo.Save(ctx, *resp); err != nil {
		logger.Warn(ctx, "persist submission result failed",
			zap.String("token", resp.SubmissionID), zap.Error(err))
	}
}

// toUnified converts a normalized result into the caller-facing response.
func toUnified(token string, res executor.NormalizedResult) *model.UnifiedResponse {
	return &model.UnifiedResponse{
		SubmissionID:    token,
		Passed:          res.Passed,
		Verdict:         string(res.Verdict),
		ExecutionTimeMs: res.TimeMs,
		MemoryUsedKB:    res.MemoryKB,
		Output:          res.Output,
		ErrorMessage:    res.ErrorMessage,
	}
}

// toStatusPayload converts a state snapshot into the compatibility shape.
func toStatusPayload(state executor.ExecutionState) *model.StatusPayload {
	payload := &model.StatusPayload{
		Token: state.Token,
		Status: model.StatusInfo{
			ID:          state.StatusID,
			Description: state.StatusDescription,
		},
		Stdout:        encodeField(state.Stdout),
		Stderr:        encodeField(state.Stderr),
		CompileOutput: encodeField(state.CompileOutput),
		Message:       encodeField(state.Message),
		Memory:        state.MemoryKB,
	}
	if state.TimeMs != nil {
		seconds := strconv.FormatFloat(float64(*state.TimeMs)/1000, 'f', 3, 64)
		payload.Time = &seconds
	}
	return payload
}

// encodeField base64-encodes an optional text field for the wire.
func encodeField(field *string) *string {
	if field == nil {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(*field))
	return &encoded
}
