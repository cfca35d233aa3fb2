package executor

import (
	"strings"

	"ataljudge/internal/judge/verdict"
)

// NormalizedResult is the backend-agnostic outcome derived from an
// ExecutionState. It is recomputed on demand and never cached in the state.
type NormalizedResult struct {
	Verdict      verdict.Verdict
	Passed       bool
	TimeMs       int64
	MemoryKB     int64
	Output       string
	ErrorMessage string
}

// ProcessResult derives a NormalizedResult from a state snapshot. It is a
// pure function of the state and the optional expected output.
//
// Passed is true only when the backend reported Accepted and, if an expected
// output was supplied, the trimmed actual output equals the trimmed expected
// output. An Accepted state whose output mismatches the expectation is
// reported as WrongAnswer even though the raw code said Accepted.
func ProcessResult(state ExecutionState, expectedOutput *string) NormalizedResult {
	v := verdict.FromStatusCode(state.StatusID)

	output := ""
	if state.Stdout != nil {
		output = strings.TrimSpace(*state.Stdout)
	}

	passed := false
	if state.StatusID == verdict.StatusAccepted {
		if expectedOutput == nil || output == strings.TrimSpace(*expectedOutput) {
			passed = true
		} else {
			v = verdict.WrongAnswer
		}
	}

	res := NormalizedResult{
		Verdict:      v,
		Passed:       passed,
		Output:       output,
		ErrorMessage: firstError(state),
	}
	if state.TimeMs != nil {
		res.TimeMs = *state.TimeMs
	}
	if state.MemoryKB != nil {
		res.MemoryKB = *state.MemoryKB
	}
	return res
}

// firstError returns the first non-empty error-bearing field.
func firstError(state ExecutionState) string {
	for _, field := range []*string{state.Stderr, state.CompileOutput, state.Message} {
		if field != nil && strings.TrimSpace(*field) != "" {
			return strings.TrimSpace(*field)
		}
	}
	return ""
}
