package executor_test

import (
	"testing"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/verdict"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestProcessResultAcceptedWithMatchingOutput(t *testing.T) {
	t.Parallel()
	state := executor.ExecutionState{
		Token:    "tok-1",
		StatusID: verdict.StatusAccepted,
		Stdout:   strPtr("42\n"),
		TimeMs:   int64Ptr(120),
		MemoryKB: int64Ptr(2048),
	}
	res := executor.ProcessResult(state, strPtr("42"))
	if res.Verdict != verdict.Accepted {
		t.Fatalf("verdict = %s, want %s", res.Verdict, verdict.Accepted)
	}
	if !res.Passed {
		t.Fatal("matching output must pass")
	}
	if res.Output != "42" {
		t.Fatalf("output = %q, want trimmed %q", res.Output, "42")
	}
	if res.TimeMs != 120 || res.MemoryKB != 2048 {
		t.Fatalf("resources = (%d, %d), want (120, 2048)", res.TimeMs, res.MemoryKB)
	}
}

func TestProcessResultAcceptedWithMismatchBecomesWrongAnswer(t *testing.T) {
	t.Parallel()
	state := executor.ExecutionState{
		Token:    "tok-2",
		StatusID: verdict.StatusAccepted,
		Stdout:   strPtr("41\n"),
	}
	res := executor.ProcessResult(state, strPtr("42"))
	if res.Verdict != verdict.WrongAnswer {
		t.Fatalf("verdict = %s, want %s", res.Verdict, verdict.WrongAnswer)
	}
	if res.Passed {
		t.Fatal("mismatched output must not pass")
	}
}

func TestProcessResultAcceptedWithoutExpectation(t *testing.T) {
	t.Parallel()
	state := executor.ExecutionState{
		Token:    "tok-3",
		StatusID: verdict.StatusAccepted,
		Stdout:   strPtr("anything at all"),
	}
	res := executor.ProcessResult(state, nil)
	if !res.Passed || res.Verdict != verdict.Accepted {
		t.Fatalf("got (%s, passed=%v), want (Accepted, true)", res.Verdict, res.Passed)
	}
}

func TestProcessResultTrimsBothSides(t *testing.T) {
	t.Parallel()
	state := executor.ExecutionState{
		Token:    "tok-4",
		StatusID: verdict.StatusAccepted,
		Stdout:   strPtr("  hello world \n\n"),
	}
	res := executor.ProcessResult(state, strPtr("\nhello world  "))
	if !res.Passed {
		t.Fatal("whitespace-only differences must not fail a submission")
	}
}

func TestProcessResultNonAcceptedNeverPasses(t *testing.T) {
	t.Parallel()
	for _, code := range []int{
		verdict.StatusWrongAnswer,
		verdict.StatusTimeLimitExceeded,
		verdict.StatusCompilationError,
		verdict.StatusRuntimeErrorNZEC,
		verdict.StatusInternalError,
	} {
		state := executor.ExecutionState{Token: "tok-5", StatusID: code, Stdout: strPtr("42")}
		res := executor.ProcessResult(state, strPtr("42"))
		if res.Passed {
			t.Fatalf("status %d must not pass even with matching output", code)
		}
	}
}

func TestProcessResultErrorMessagePrecedence(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		state executor.ExecutionState
		want  string
	}{
		{
			name: "stderr wins",
			state: executor.ExecutionState{
				StatusID:      verdict.StatusRuntimeErrorNZEC,
				Stderr:        strPtr("segfault\n"),
				CompileOutput: strPtr("warning: unused"),
				Message:       strPtr("exit 1"),
			},
			want: "segfault",
		},
		{
			name: "compile output next",
			state: executor.ExecutionState{
				StatusID:      verdict.StatusCompilationError,
				Stderr:        strPtr("   "),
				CompileOutput: strPtr("syntax error"),
				Message:       strPtr("exit 1"),
			},
			want: "syntax error",
		},
		{
			name: "message last",
			state: executor.ExecutionState{
				StatusID: verdict.StatusInternalError,
				Message:  strPtr("worker crashed"),
			},
			want: "worker crashed",
		},
		{
			name:  "all empty",
			state: executor.ExecutionState{StatusID: verdict.StatusAccepted},
			want:  "",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := executor.ProcessResult(tc.state, nil)
			if res.ErrorMessage != tc.want {
				t.Fatalf("error message = %q, want %q", res.ErrorMessage, tc.want)
			}
		})
	}
}

func TestProcessResultUnknownStatusIsJudgeError(t *testing.T) {
	t.Parallel()
	res := executor.ProcessResult(executor.ExecutionState{Token: "tok-6", StatusID: 57}, nil)
	if res.Verdict != verdict.JudgeError {
		t.Fatalf("verdict = %s, want %s", res.Verdict, verdict.JudgeError)
	}
	if res.Passed {
		t.Fatal("unknown status must not pass")
	}
}
