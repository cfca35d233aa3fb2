package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13999: Submission & Judge module errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	CacheMiss  ErrorCode = 10201

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Submission & Judge Module Errors (13000-13999) ==========

	// Submission (13000-13099)
	SubmissionNotFound     ErrorCode = 13000
	SubmissionCreateFailed ErrorCode = 13001
	CodeTooLarge           ErrorCode = 13002
	LanguageNotSupported   ErrorCode = 13003

	// Judge (13100-13199)
	JudgeSystemError    ErrorCode = 13100
	ExecutorUnavailable ErrorCode = 13101
	WaitTimeout         ErrorCode = 13102
	ResultNotReady      ErrorCode = 13103
)

// errorMessages maps error codes to their default messages
var errorMessages = map[ErrorCode]string{
	Success: "Success",

	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	ServiceUnavailable:  "Service unavailable",
	Timeout:             "Request timeout",

	CacheError: "Cache operation failed",
	CacheMiss:  "Cache miss",

	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Required field is empty",

	SubmissionNotFound:     "Submission not found",
	SubmissionCreateFailed: "Failed to create submission",
	CodeTooLarge:           "Source code exceeds size limit",
	LanguageNotSupported:   "Programming language is not supported",

	JudgeSystemError:    "Judge system error",
	ExecutorUnavailable: "Execution backend unavailable",
	WaitTimeout:         "Timed out waiting for submission to finish",
	ResultNotReady:      "Submission has not finished yet",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == SubmissionNotFound, c == CacheMiss:
		return 404
	case c == InvalidParams, c == LanguageNotSupported, c == CodeTooLarge:
		return 400
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == ServiceUnavailable, c == ExecutorUnavailable:
		return 503
	case c == ResultNotReady:
		return 409
	case c == Timeout, c == WaitTimeout:
		return 504
	default:
		return 500
	}
}
