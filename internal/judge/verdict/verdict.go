// Package verdict defines the normalized judging outcome taxonomy and the
// mapping from raw backend status codes.
package verdict

// Verdict represents the normalized outcome of judging a submission.
type Verdict string

const (
	Accepted          Verdict = "Accepted"
	WrongAnswer       Verdict = "WrongAnswer"
	TimeLimitExceeded Verdict = "TimeLimitExceeded"
	CompilationError  Verdict = "CompilationError"
	RuntimeError      Verdict = "RuntimeError"
	InternalError     Verdict = "InternalError"
	// JudgeError is the catch-all for status codes no backend flavor is
	// known to produce.
	JudgeError Verdict = "JudgeError"
)

// Backend status codes. The numbering follows the external judge wire
// format: 1 and 2 are lifecycle states, everything above is terminal.
const (
	StatusInQueue             = 1
	StatusProcessing          = 2
	StatusAccepted            = 3
	StatusWrongAnswer         = 4
	StatusTimeLimitExceeded   = 5
	StatusCompilationError    = 6
	StatusRuntimeErrorSIGSEGV = 7
	StatusRuntimeErrorSIGXFSZ = 8
	StatusRuntimeErrorSIGFPE  = 9
	StatusRuntimeErrorSIGABRT = 10
	StatusRuntimeErrorNZEC    = 11
	StatusRuntimeErrorOther   = 12
	StatusInternalError       = 13
)

// statusDescriptions maps status codes to their wire descriptions.
var statusDescriptions = map[int]string{
	StatusInQueue:             "In Queue",
	StatusProcessing:          "Processing",
	StatusAccepted:            "Accepted",
	StatusWrongAnswer:         "Wrong Answer",
	StatusTimeLimitExceeded:   "Time Limit Exceeded",
	StatusCompilationError:    "Compilation Error",
	StatusRuntimeErrorSIGSEGV: "Runtime Error (SIGSEGV)",
	StatusRuntimeErrorSIGXFSZ: "Runtime Error (SIGXFSZ)",
	StatusRuntimeErrorSIGFPE:  "Runtime Error (SIGFPE)",
	StatusRuntimeErrorSIGABRT: "Runtime Error (SIGABRT)",
	StatusRuntimeErrorNZEC:    "Runtime Error (NZEC)",
	StatusRuntimeErrorOther:   "Runtime Error (Other)",
	StatusInternalError:       "Internal Error",
}

// FromStatusCode maps a raw backend status code to a Verdict. It is total:
// every integer yields exactly one Verdict, and the whole signal family of
// runtime-failure codes collapses to RuntimeError.
func FromStatusCode(code int) Verdict {
	switch code {
	case StatusAccepted:
		return Accepted
	case StatusWrongAnswer:
		return WrongAnswer
	case StatusTimeLimitExceeded:
		return TimeLimitExceeded
	case StatusCompilationError:
		return CompilationError
	case StatusRuntimeErrorSIGSEGV, StatusRuntimeErrorSIGXFSZ,
		StatusRuntimeErrorSIGFPE, StatusRuntimeErrorSIGABRT,
		StatusRuntimeErrorNZEC, StatusRuntimeErrorOther:
		return RuntimeError
	case StatusInternalError:
		return InternalError
	default:
		return JudgeError
	}
}

// StatusDescription returns the wire description for a status code.
func StatusDescription(code int) string {
	if desc, ok := statusDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// IsTerminal reports whether a status code is past Processing. A terminal
// state never reverts to an earlier lifecycle stage.
func IsTerminal(code int) bool {
	return code > StatusProcessing
}
