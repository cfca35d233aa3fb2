package local_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/executor/local"
	"ataljudge/internal/judge/verdict"
	appErr "ataljudge/pkg/errors"
)

// newExecutorServer fakes a per-language executor service.
func newExecutorServer(t *testing.T, exitCode int, stdout, stderr string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req struct {
			Code     string `json:"code"`
			Language string `json:"language"`
			Cmd      string `json:"cmd"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode executor request: %v", err)
		}
		if req.Cmd == "" {
			t.Error("launch command missing from executor request")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"exitCode": exitCode,
			"stdout":   stdout,
			"stderr":   stderr,
			"time":     0.125,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// awaitTerminal polls until the token leaves the lifecycle states.
func awaitTerminal(t *testing.T, a *local.Adapter, token string) executor.ExecutionState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state, err := a.GetStatus(context.Background(), token)
		if err != nil {
			t.Fatalf("get status failed: %v", err)
		}
		if verdict.IsTerminal(state.StatusID) {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("token %s never reached a terminal state", token)
	return executor.ExecutionState{}
}

func TestCreateSubmissionRunsToAccepted(t *testing.T) {
	t.Parallel()
	srv := newExecutorServer(t, 0, "hi\n", "")
	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	token, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "print('hi')",
		Language: executor.LangPython,
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	state := awaitTerminal(t, adapter, token)
	if state.StatusID != verdict.StatusAccepted {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusAccepted)
	}
	if state.Stdout == nil || *state.Stdout != "hi\n" {
		t.Fatalf("unexpected stdout: %v", state.Stdout)
	}
	if state.TimeMs == nil || *state.TimeMs != 125 {
		t.Fatalf("unexpected time: %v", state.TimeMs)
	}
}

func TestCreateSubmissionNonZeroExitIsRuntimeError(t *testing.T) {
	t.Parallel()
	srv := newExecutorServer(t, 1, "", "Traceback (most recent call last)")
	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	token, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "raise SystemExit(1)",
		Language: executor.LangPython,
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	state := awaitTerminal(t, adapter, token)
	if state.StatusID != verdict.StatusRuntimeErrorNZEC {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusRuntimeErrorNZEC)
	}
}

func TestCreateSubmissionTimeoutMarkerIsTimeLimitExceeded(t *testing.T) {
	t.Parallel()
	srv := newExecutorServer(t, 1, "", "killed: Time Limit Exceeded after 2s")
	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	token, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "while True: pass",
		Language: executor.LangPython,
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	state := awaitTerminal(t, adapter, token)
	if state.StatusID != verdict.StatusTimeLimitExceeded {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusTimeLimitExceeded)
	}
}

func TestCreateSubmissionRejectsUnknownLanguageBeforeDispatch(t *testing.T) {
	t.Parallel()
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	_, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "puts 'hi'",
		Language: "ruby",
	})
	if err == nil {
		t.Fatal("expected unsupported language error")
	}
	if !appErr.Is(err, appErr.LanguageNotSupported) {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("executor must not be contacted for an unsupported language")
	}
}

func TestCreateSubmissionUnreachableExecutorEndsInternalError(t *testing.T) {
	t.Parallel()
	adapter := local.NewAdapter(local.Config{
		Endpoints:      map[string]string{executor.LangPython: "http://127.0.0.1:1/execute"},
		RequestTimeout: 500 * time.Millisecond,
	}, executor.NewLedger())

	token, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "print('hi')",
		Language: executor.LangPython,
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	state := awaitTerminal(t, adapter, token)
	if state.StatusID != verdict.StatusInternalError {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusInternalError)
	}
	if state.Message == nil || *state.Message == "" {
		t.Fatal("internal error state must carry a message")
	}
}

func TestCreateSubmissionExecutorHTTPErrorEndsInternalError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	token, err := adapter.CreateSubmission(context.Background(), executor.ExecutionRequest{
		Code:     "print('hi')",
		Language: executor.LangPython,
	})
	if err != nil {
		t.Fatalf("create submission failed: %v", err)
	}

	state := awaitTerminal(t, adapter, token)
	if state.StatusID != verdict.StatusInternalError {
		t.Fatalf("status = %d, want %d", state.StatusID, verdict.StatusInternalError)
	}
}

func TestGetStatusUnknownToken(t *testing.T) {
	t.Parallel()
	adapter := local.NewAdapter(local.Config{}, executor.NewLedger())
	_, err := adapter.GetStatus(context.Background(), "nope")
	if !appErr.Is(err, appErr.SubmissionNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchSubmissionsPreserveOrder(t *testing.T) {
	t.Parallel()
	srv := newExecutorServer(t, 0, "ok", "")
	adapter := local.NewAdapter(local.Config{
		Endpoints: map[string]string{executor.LangPython: srv.URL},
	}, executor.NewLedger())

	reqs := []executor.ExecutionRequest{
		{Code: "print(1)", Language: executor.LangPython},
		{Code: "print(2)", Language: executor.LangPython},
		{Code: "print(3)", Language: executor.LangPython},
	}
	tokens, err := adapter.CreateBatchSubmissions(context.Background(), reqs)
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	if len(tokens) != len(reqs) {
		t.Fatalf("token count = %d, want %d", len(tokens), len(reqs))
	}

	for _, token := range tokens {
		awaitTerminal(t, adapter, token)
	}
	states, err := adapter.GetBatchStatus(context.Background(), tokens)
	if err != nil {
		t.Fatalf("get batch status failed: %v", err)
	}
	for i, state := range states {
		if state.Token != tokens[i] {
			t.Fatalf("states[%d].Token = %s, want %s", i, state.Token, tokens[i])
		}
	}
}
