package executor_test

import (
	"fmt"
	"sync"
	"testing"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/verdict"
)

func TestLedgerPutAndGet(t *testing.T) {
	t.Parallel()
	ledger := executor.NewLedger()
	ledger.Put(executor.ExecutionState{Token: "a", StatusID: verdict.StatusInQueue})

	state, ok := ledger.Get("a")
	if !ok {
		t.Fatal("expected token to be present")
	}
	if state.StatusID != verdict.StatusInQueue {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusInQueue)
	}
	if _, ok := ledger.Get("missing"); ok {
		t.Fatal("missing token must not be found")
	}
}

func TestLedgerLifecycleProgression(t *testing.T) {
	t.Parallel()
	ledger := executor.NewLedger()
	for _, code := range []int{verdict.StatusInQueue, verdict.StatusProcessing, verdict.StatusAccepted} {
		ledger.Put(executor.ExecutionState{Token: "a", StatusID: code})
	}
	state, _ := ledger.Get("a")
	if state.StatusID != verdict.StatusAccepted {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusAccepted)
	}
}

func TestLedgerTerminalStateIsStable(t *testing.T) {
	t.Parallel()
	ledger := executor.NewLedger()
	ledger.Put(executor.ExecutionState{Token: "a", StatusID: verdict.StatusAccepted})
	ledger.Put(executor.ExecutionState{Token: "a", StatusID: verdict.StatusProcessing})

	state, _ := ledger.Get("a")
	if state.StatusID != verdict.StatusAccepted {
		t.Fatalf("terminal state was reverted to %d", state.StatusID)
	}

	// A different terminal state may still replace it.
	ledger.Put(executor.ExecutionState{Token: "a", StatusID: verdict.StatusInternalError})
	state, _ = ledger.Get("a")
	if state.StatusID != verdict.StatusInternalError {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusInternalError)
	}
}

func TestLedgerConcurrentWriters(t *testing.T) {
	t.Parallel()
	ledger := executor.NewLedger()
	const tokens = 50

	var wg sync.WaitGroup
	for i := 0; i < tokens; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", i)
			ledger.Put(executor.ExecutionState{Token: token, StatusID: verdict.StatusInQueue})
			ledger.Put(executor.ExecutionState{Token: token, StatusID: verdict.StatusProcessing})
			ledger.Put(executor.ExecutionState{Token: token, StatusID: verdict.StatusAccepted})
		}(i)
	}
	wg.Wait()

	if got := ledger.Len(); got != tokens {
		t.Fatalf("ledger size = %d, want %d", got, tokens)
	}
	for i := 0; i < tokens; i++ {
		state, ok := ledger.Get(fmt.Sprintf("tok-%d", i))
		if !ok || state.StatusID != verdict.StatusAccepted {
			t.Fatalf("token %d: ok=%v status=%d", i, ok, state.StatusID)
		}
	}
}
