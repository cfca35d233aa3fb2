package service

import (
	"context"
	"math"
	"time"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/model"
	"ataljudge/internal/judge/verdict"
	appErr "ataljudge/pkg/errors"
)

// ProgressFunc receives one BatchProgress per poll tick.
type ProgressFunc func(model.BatchProgress)

// WaitForSubmission polls until the token reaches a terminal state. The
// bound is wall-clock: total elapsed time never exceeds maxAttempts times
// interval (plus at most one in-flight status call), so a slow individual
// call cannot extend the overall bound. Zero arguments fall back to the
// facade defaults.
func (s *Service) WaitForSubmission(ctx context.Context, token string, maxAttempts int, interval time.Duration) (executor.ExecutionState, error) {
	maxAttempts, interval = s.pollBounds(maxAttempts, interval)
	deadline := time.Now().Add(time.Duration(maxAttempts) * interval)

	for {
		state, err := s.adapter.GetStatus(ctx, token)
		if err != nil {
			return executor.ExecutionState{}, err
		}
		if verdict.IsTerminal(state.StatusID) {
			return state, nil
		}
		if !time.Now().Before(deadline) {
			return executor.ExecutionState{}, appErr.TimeoutError(token)
		}
		if err := sleep(ctx, interval); err != nil {
			return executor.ExecutionState{}, err
		}
	}
}

// WaitForBatchWithCallback polls all tokens in one fan-out per tick until
// every one is terminal. onProgress runs once per tick, not once per token.
// Returned statuses preserve the input token order. The wall-clock bound is
// the same as for a single wait; the timeout error names the tokens that
// did not finish.
func (s *Service) WaitForBatchWithCallback(ctx context.Context, tokens []string, onProgress ProgressFunc, maxAttempts int, interval time.Duration) ([]executor.ExecutionState, error) {
	maxAttempts, interval = s.pollBounds(maxAttempts, interval)
	deadline := time.Now().Add(time.Duration(maxAttempts) * interval)
	total := len(tokens)

	for {
		states, err := s.adapter.GetBatchStatus(ctx, tokens)
		if err != nil {
			return nil, err
		}

		completed := 0
		for _, state := range states {
			if verdict.IsTerminal(state.StatusID) {
				completed++
			}
		}

		if onProgress != nil {
			onProgress(model.BatchProgress{
				Completed:  completed,
				Pending:    total - completed,
				Total:      total,
				Percentage: percentage(completed, total),
				Statuses:   states,
			})
		}

		if completed == total {
			return states, nil
		}
		if !time.Now().Before(deadline) {
			return nil, appErr.TimeoutError(pendingTokens(states)...)
		}
		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}

// pollBounds substitutes facade defaults for zero caller values.
func (s *Service) pollBounds(maxAttempts int, interval time.Duration) (int, time.Duration) {
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}
	if interval <= 0 {
		interval = s.pollInterval
	}
	return maxAttempts, interval
}

// sleep suspends between polls, waking early on context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// percentage rounds the completed share to a whole percent.
func percentage(completed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// pendingTokens lists tokens still short of a terminal state.
func pendingTokens(states []executor.ExecutionState) []string {
	var pending []string
	for _, state := range states {
		if !verdict.IsTerminal(state.StatusID) {
			pending = append(pending, state.Token)
		}
	}
	return pending
}
