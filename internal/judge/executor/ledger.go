package executor

import (
	"github.com/puzpuzpuz/xsync/v3"

	"ataljudge/internal/judge/verdict"
)

// Ledger is the process-local map from submission token to the latest
// execution state snapshot. Reads and writes from many goroutines are safe;
// each write touches only its own token's entry.
type Ledger struct {
	states *xsync.MapOf[string, ExecutionState]
}

// NewLedger creates an empty ledger. Each adapter instance owns its own
// ledger, so tests can run independent instances side by side.
func NewLedger() *Ledger {
	return &Ledger{states: xsync.NewMapOf[string, ExecutionState]()}
}

// Put records a state snapshot for its token. A state that already reached
// a terminal stage is never replaced by an earlier lifecycle stage.
func (l *Ledger) Put(state ExecutionState) {
	l.states.Compute(state.Token, func(old ExecutionState, loaded bool) (ExecutionState, bool) {
		if loaded && verdict.IsTerminal(old.StatusID) && !verdict.IsTerminal(state.StatusID) {
			return old, false
		}
		return state, false
	})
}

// Get returns the state snapshot for a token.
func (l *Ledger) Get(token string) (ExecutionState, bool) {
	return l.states.Load(token)
}

// Len returns the number of tracked submissions.
func (l *Ledger) Len() int {
	return l.states.Size()
}
