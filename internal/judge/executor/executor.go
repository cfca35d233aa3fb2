// Package executor defines the execution backend adapter contract shared by
// all backend flavors, the normalized result computation, and the in-memory
// submission ledger.
package executor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Supported language identifiers. An adapter may support a subset; requests
// naming a language with no configured executor fail before any network call.
const (
	LangPython     = "python"
	LangJava       = "java"
	LangC          = "c"
	LangCPP        = "cpp"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
)

// ExecutionRequest is the immutable description of one unit of work.
// It is never mutated after submission.
type ExecutionRequest struct {
	Code           string
	Language       string
	Stdin          string
	ExpectedOutput *string
	// CPUTimeLimitMs and MemoryLimitKB are optional; zero means the
	// backend default applies.
	CPUTimeLimitMs int64
	MemoryLimitKB  int64
}

// ExecutionState is the current lifecycle snapshot of one submission,
// keyed by its token. The four text fields are independently optional.
// Only the owning adapter's background routine mutates it; everyone else
// reads snapshots.
type ExecutionState struct {
	Token             string
	StatusID          int
	StatusDescription string
	Stdout            *string
	Stderr            *string
	CompileOutput     *string
	Message           *string
	TimeMs            *int64
	MemoryKB          *int64
}

// Adapter is the contract every execution backend flavor implements.
// CreateSubmission must return immediately; the work proceeds out of band
// and is observed through GetStatus.
type Adapter interface {
	CreateSubmission(ctx context.Context, req ExecutionRequest) (string, error)
	CreateBatchSubmissions(ctx context.Context, reqs []ExecutionRequest) ([]string, error)
	GetStatus(ctx context.Context, token string) (ExecutionState, error)
	GetBatchStatus(ctx context.Context, tokens []string) ([]ExecutionState, error)
}

// CreateBatch fans out CreateSubmission over all requests, returning tokens
// in input order. Submissions already accepted are not rolled back when a
// later one fails.
func CreateBatch(ctx context.Context, a Adapter, reqs []ExecutionRequest) ([]string, error) {
	tokens := make([]string, 0, len(reqs))
	for _, req := range reqs {
		token, err := a.CreateSubmission(ctx, req)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// GetBatch fans out GetStatus concurrently over all tokens, preserving input
// order. Batch status is all-or-nothing: one failed lookup fails the batch.
func GetBatch(ctx context.Context, a Adapter, tokens []string) ([]ExecutionState, error) {
	states := make([]ExecutionState, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	for i, token := range tokens {
		i, token := i, token
		g.Go(func() error {
			state, err := a.GetStatus(gctx, token)
			if err != nil {
				return err
			}
			states[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}
