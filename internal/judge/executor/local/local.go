// Package local implements the execution backend adapter that keeps its own
// submission ledger and delegates each run to a per-language executor service
// over HTTP. There is no external queue: each accepted submission is executed
// by a detached goroutine.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/verdict"
	appErr "ataljudge/pkg/errors"
	"ataljudge/pkg/utils/logger"
)

const defaultRequestTimeout = 10 * time.Second

// tleMarker is the executor's only timeout signal: a non-zero exit whose
// stderr carries this substring. The executor contract has no structured
// timeout field, so the match must stay byte-exact.
const tleMarker = "Time Limit Exceeded"

// runCommand describes how the executor service launches a program for one
// language.
type runCommand struct {
	Cmd  string
	Args []string
}

// runCommands is the fixed launch table sent alongside each request.
var runCommands = map[string]runCommand{
	executor.LangPython:     {Cmd: "python3", Args: []string{"main.py"}},
	executor.LangJava:       {Cmd: "java", Args: []string{"Main.java"}},
	executor.LangC:          {Cmd: "./main", Args: nil},
	executor.LangCPP:        {Cmd: "./main", Args: nil},
	executor.LangJavaScript: {Cmd: "node", Args: []string{"main.js"}},
	executor.LangTypeScript: {Cmd: "ts-node", Args: []string{"main.ts"}},
}

// Config holds the per-language executor endpoints and the outbound timeout.
type Config struct {
	// Endpoints maps a language identifier to its executor URL.
	Endpoints map[string]string `yaml:"endpoints"`
	// RequestTimeout bounds each outbound executor call. Zero means 10s.
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// Adapter executes submissions through per-language executor services while
// tracking their lifecycle in an injected ledger.
type Adapter struct {
	endpoints map[string]string
	client    *http.Client
	ledger    *executor.Ledger
}

// NewAdapter creates a local adapter backed by the given ledger.
func NewAdapter(cfg Config, ledger *executor.Ledger) *Adapter {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	endpoints := make(map[string]string, len(cfg.Endpoints))
	for lang, url := range cfg.Endpoints {
		endpoints[strings.ToLower(lang)] = url
	}
	return &Adapter{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
		ledger:    ledger,
	}
}

// CreateSubmission validates the language, records a Queued state, and kicks
// off execution in the background. It never blocks on the executor.
func (a *Adapter) CreateSubmission(ctx context.Context, req executor.ExecutionRequest) (string, error) {
	endpoint, ok := a.endpoints[strings.ToLower(req.Language)]
	if !ok {
		return "", appErr.UnsupportedLanguageError(req.Language)
	}

	token := uuid.NewString()
	a.ledger.Put(executor.ExecutionState{
		Token:             token,
		StatusID:          verdict.StatusInQueue,
		StatusDescription: verdict.StatusDescription(verdict.StatusInQueue),
	})

	go a.execute(token, req, endpoint)

	return token, nil
}

// CreateBatchSubmissions fans out CreateSubmission, preserving input order.
func (a *Adapter) CreateBatchSubmissions(ctx context.Context, reqs []executor.ExecutionRequest) ([]string, error) {
	return executor.CreateBatch(ctx, a, reqs)
}

// GetStatus returns the current state snapshot without blocking.
func (a *Adapter) GetStatus(ctx context.Context, token string) (executor.ExecutionState, error) {
	state, ok := a.ledger.Get(token)
	if !ok {
		return executor.ExecutionState{}, appErr.New(appErr.SubmissionNotFound).WithDetail("token", token)
	}
	return state, nil
}

// GetBatchStatus fans out GetStatus concurrently, preserving input order.
func (a *Adapter) GetBatchStatus(ctx context.Context, tokens []string) ([]executor.ExecutionState, error) {
	return executor.GetBatch(ctx, a, tokens)
}

// execRequest is the executor service wire request.
type execRequest struct {
	Code     string   `json:"code"`
	Stdin    string   `json:"stdin"`
	Language string   `json:"language"`
	Cmd      string   `json:"cmd"`
	Args     []string `json:"args"`
}

// execResponse is the executor service wire response.
type execResponse struct {
	ExitCode int     `json:"exitCode"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	Time     float64 `json:"time"`
}

// execute runs one submission to a terminal state. It must never leave the
// token stuck before a terminal state: any failure, including a panic, is
// recorded as InternalError.
func (a *Adapter) execute(token string, req executor.ExecutionRequest, endpoint string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "executor background panic",
				zap.String("token", token), zap.Any("panic", r))
			a.recordInternalError(token, fmt.Sprintf("panic during execution: %v", r))
		}
	}()

	a.ledger.Put(executor.ExecutionState{
		Token:             token,
		StatusID:          verdict.StatusProcessing,
		StatusDescription: verdict.StatusDescription(verdict.StatusProcessing),
	})

	resp, err := a.callExecutor(req, endpoint)
	if err != nil {
		logger.Warn(context.Background(), "executor call failed",
			zap.String("token", token), zap.String("language", req.Language), zap.Error(err))
		a.recordInternalError(token, err.Error())
		return
	}

	statusID := classify(resp)
	timeMs := int64(resp.Time * 1000)
	state := executor.ExecutionState{
		Token:             token,
		StatusID:          statusID,
		StatusDescription: verdict.StatusDescription(statusID),
		Stdout:            &resp.Stdout,
		Stderr:            &resp.Stderr,
		TimeMs:            &timeMs,
	}
	a.ledger.Put(state)
}

// callExecutor POSTs the submission to the language executor and decodes
// the response. The client timeout bounds the whole round trip.
func (a *Adapter) callExecutor(req executor.ExecutionRequest, endpoint string) (*execResponse, error) {
	run := runCommands[strings.ToLower(req.Language)]
	payload := execRequest{
		Code:     req.Code,
		Stdin:    req.Stdin,
		Language: strings.ToLower(req.Language),
		Cmd:      run.Cmd,
		Args:     run.Args,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal executor request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build executor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call executor: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("executor returned HTTP %d: %s", httpResp.StatusCode, string(snippet))
	}

	var resp execResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode executor response: %w", err)
	}
	return &resp, nil
}

// classify picks the terminal status code from the executor's exit signal.
// A non-zero exit with no timeout marker defaults to a runtime error.
func classify(resp *execResponse) int {
	if resp.ExitCode == 0 {
		return verdict.StatusAccepted
	}
	if strings.Contains(resp.Stderr, tleMarker) {
		return verdict.StatusTimeLimitExceeded
	}
	return verdict.StatusRuntimeErrorNZEC
}

// recordInternalError resolves the token to a terminal InternalError state
// with the captured failure message.
func (a *Adapter) recordInternalError(token, message string) {
	a.ledger.Put(executor.ExecutionState{
		Token:             token,
		StatusID:          verdict.StatusInternalError,
		StatusDescription: verdict.StatusDescription(verdict.StatusInternalError),
		Message:           &message,
	})
}
