package verdict_test

import (
	"testing"

	"ataljudge/internal/judge/verdict"
)

func TestFromStatusCodeKnownCodes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		code int
		want verdict.Verdict
	}{
		{"accepted", verdict.StatusAccepted, verdict.Accepted},
		{"wrong answer", verdict.StatusWrongAnswer, verdict.WrongAnswer},
		{"time limit", verdict.StatusTimeLimitExceeded, verdict.TimeLimitExceeded},
		{"compile error", verdict.StatusCompilationError, verdict.CompilationError},
		{"sigsegv", verdict.StatusRuntimeErrorSIGSEGV, verdict.RuntimeError},
		{"sigxfsz", verdict.StatusRuntimeErrorSIGXFSZ, verdict.RuntimeError},
		{"sigfpe", verdict.StatusRuntimeErrorSIGFPE, verdict.RuntimeError},
		{"sigabrt", verdict.StatusRuntimeErrorSIGABRT, verdict.RuntimeError},
		{"nzec", verdict.StatusRuntimeErrorNZEC, verdict.RuntimeError},
		{"runtime other", verdict.StatusRuntimeErrorOther, verdict.RuntimeError},
		{"internal error", verdict.StatusInternalError, verdict.InternalError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := verdict.FromStatusCode(tc.code); got != tc.want {
				t.Fatalf("FromStatusCode(%d) = %s, want %s", tc.code, got, tc.want)
			}
		})
	}
}

func TestFromStatusCodeIsTotal(t *testing.T) {
	t.Parallel()
	for _, code := range []int{-5, 0, verdict.StatusInQueue, verdict.StatusProcessing, 14, 99, 1000} {
		if got := verdict.FromStatusCode(code); got != verdict.JudgeError {
			t.Fatalf("FromStatusCode(%d) = %s, want %s", code, got, verdict.JudgeError)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	if verdict.IsTerminal(verdict.StatusInQueue) {
		t.Fatal("queued state must not be terminal")
	}
	if verdict.IsTerminal(verdict.StatusProcessing) {
		t.Fatal("processing state must not be terminal")
	}
	for code := verdict.StatusAccepted; code <= verdict.StatusInternalError; code++ {
		if !verdict.IsTerminal(code) {
			t.Fatalf("status %d must be terminal", code)
		}
	}
	// Unknown codes above Processing still count as finished.
	if !verdict.IsTerminal(42) {
		t.Fatal("unknown high status must be terminal")
	}
}

func TestStatusDescription(t *testing.T) {
	t.Parallel()
	if got := verdict.StatusDescription(verdict.StatusRuntimeErrorSIGSEGV); got != "Runtime Error (SIGSEGV)" {
		t.Fatalf("unexpected description: %s", got)
	}
	if got := verdict.StatusDescription(999); got != "Unknown" {
		t.Fatalf("unexpected fallback description: %s", got)
	}
}
