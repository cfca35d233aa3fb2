// Package judge0 implements the execution backend adapter for a Judge0 CE
// instance. The backend mints the submission token and keeps all state; this
// adapter only translates the wire format. Source, stdin and the captured
// text fields are base64-encoded on the wire.
package judge0

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ataljudge/internal/judge/executor"
	appErr "ataljudge/pkg/errors"
)

const defaultRequestTimeout = 10 * time.Second

// languageIDs maps our language identifiers to Judge0 CE language ids.
var languageIDs = map[string]int{
	executor.LangPython:     71,
	executor.LangJava:       62,
	executor.LangC:          50,
	executor.LangCPP:        54,
	executor.LangJavaScript: 63,
	executor.LangTypeScript: 74,
}

// Config holds the connection settings for a Judge0 CE instance.
// AuthToken is optional; it is sent as X-Auth-Token when set.
type Config struct {
	URL            string        `yaml:"url"`
	AuthToken      string        `yaml:"authToken"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// Adapter calls the Judge0 CE REST API.
type Adapter struct {
	url       string
	authToken string
	client    *http.Client
}

// NewAdapter constructs a Judge0 adapter from the given config.
func NewAdapter(cfg Config) *Adapter {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Adapter{
		url:       strings.TrimRight(cfg.URL, "/"),
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: timeout},
	}
}

// CreateSubmission posts the submission without waiting for the result and
// returns the token minted by the backend.
func (a *Adapter) CreateSubmission(ctx context.Context, req executor.ExecutionRequest) (string, error) {
	languageID, ok := languageIDs[strings.ToLower(req.Language)]
	if !ok {
		return "", appErr.UnsupportedLanguageError(req.Language)
	}

	body := map[string]interface{}{
		"source_code": base64.StdEncoding.EncodeToString([]byte(req.Code)),
		"language_id": languageID,
	}
	if req.Stdin != "" {
		body["stdin"] = base64.StdEncoding.EncodeToString([]byte(req.Stdin))
	}
	if req.CPUTimeLimitMs > 0 {
		body["cpu_time_limit"] = float64(req.CPUTimeLimitMs) / 1000
	}
	if req.MemoryLimitKB > 0 {
		body["memory_limit"] = req.MemoryLimitKB
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.SubmissionCreateFailed, "marshal judge0 request failed")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.url+"/submissions?base64_encoded=true&wait=false", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", appErr.Wrapf(err, appErr.SubmissionCreateFailed, "build judge0 request failed")
	}
	a.setHeaders(httpReq)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.ExecutorUnavailable, "submit to judge0 failed")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return "", appErr.Newf(appErr.ExecutorUnavailable, "judge0 returned HTTP %d", httpResp.StatusCode)
	}

	var created struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&created); err != nil {
		return "", appErr.Wrapf(err, appErr.ExecutorUnavailable, "decode judge0 response failed")
	}
	if created.Token == "" {
		return "", appErr.New(appErr.ExecutorUnavailable).WithMessage("judge0 returned no token")
	}
	return created.Token, nil
}

// CreateBatchSubmissions fans out CreateSubmission, preserving input order.
func (a *Adapter) CreateBatchSubmissions(ctx context.Context, reqs []executor.ExecutionRequest) ([]string, error) {
	return executor.CreateBatch(ctx, a, reqs)
}

// rawSubmission is the Judge0 status wire shape.
type rawSubmission struct {
	Token         string  `json:"token"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          *string `json:"time"`
	Memory        *int64  `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// GetStatus fetches and decodes the current state of one submission.
func (a *Adapter) GetStatus(ctx context.Context, token string) (executor.ExecutionState, error) {
	url := fmt.Sprintf("%s/submissions/%s?base64_encoded=true&fields=token,status,stdout,stderr,compile_output,message,time,memory", a.url, token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return executor.ExecutionState{}, appErr.Wrapf(err, appErr.ExecutorUnavailable, "build judge0 status request failed")
	}
	a.setHeaders(httpReq)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return executor.ExecutionState{}, appErr.Wrapf(err, appErr.ExecutorUnavailable, "fetch judge0 status failed")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return executor.ExecutionState{}, appErr.New(appErr.SubmissionNotFound).WithDetail("token", token)
	}
	if httpResp.StatusCode >= 400 {
		return executor.ExecutionState{}, appErr.Newf(appErr.ExecutorUnavailable, "judge0 returned HTTP %d", httpResp.StatusCode)
	}

	var raw rawSubmission
	if err := json.NewDecoder(httpResp.Body).Decode(&raw); err != nil {
		return executor.ExecutionState{}, appErr.Wrapf(err, appErr.ExecutorUnavailable, "decode judge0 status failed")
	}

	state := executor.ExecutionState{
		Token:             token,
		StatusID:          raw.Status.ID,
		StatusDescription: raw.Status.Description,
		Stdout:            decodeField(raw.Stdout),
		Stderr:            decodeField(raw.Stderr),
		CompileOutput:     decodeField(raw.CompileOutput),
		Message:           decodeField(raw.Message),
		MemoryKB:          raw.Memory,
	}
	if raw.Time != nil {
		if seconds, err := strconv.ParseFloat(*raw.Time, 64); err == nil {
			ms := int64(seconds * 1000)
			state.TimeMs = &ms
		}
	}
	return state, nil
}

// GetBatchStatus fans out GetStatus concurrently, preserving input order.
func (a *Adapter) GetBatchStatus(ctx context.Context, tokens []string) ([]executor.ExecutionState, error) {
	return executor.GetBatch(ctx, a, tokens)
}

func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if a.authToken != "" {
		req.Header.Set("X-Auth-Token", a.authToken)
	}
}

// decodeField base64-decodes an optional wire field. A field that fails to
// decode is passed through as-is rather than dropped.
func decodeField(field *string) *string {
	if field == nil {
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*field))
	if err != nil {
		return field
	}
	s := string(decoded)
	return &s
}
