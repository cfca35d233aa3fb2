// Package controller exposes the judging facade over HTTP.
package controller

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/service"
	appErr "ataljudge/pkg/errors"
	"ataljudge/pkg/utils/response"
)

// maxCodeBytes bounds accepted source size.
const maxCodeBytes = 256 * 1024

// JudgeController handles submission requests.
type JudgeController struct {
	svc *service.Service
}

// NewJudgeController creates a new controller.
func NewJudgeController(svc *service.Service) *JudgeController {
	return &JudgeController{svc: svc}
}

// RegisterRoutes mounts all judge endpoints under the given router group.
func (h *JudgeController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/submissions", h.Submit)
	r.POST("/submissions/batch", h.SubmitBatch)
	r.GET("/submissions/batch/wait", h.WaitBatch)
	r.GET("/submissions/:token", h.GetStatus)
	r.GET("/submissions/:token/result", h.GetResult)
}

// submitRequest is the inbound submission DTO.
type submitRequest struct {
	Code           string  `json:"code" binding:"required"`
	Language       string  `json:"language" binding:"required"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput *string `json:"expected_output"`
	CPUTimeLimitMs int64   `json:"cpu_time_limit_ms"`
	MemoryLimitKB  int64   `json:"memory_limit_kb"`
	// Wait blocks the request through the facade's wait loop and returns
	// the normalized result instead of just a token.
	Wait bool `json:"wait"`
}

// toExecutionRequest converts the DTO into the adapter request shape.
func (r submitRequest) toExecutionRequest() executor.ExecutionRequest {
	return executor.ExecutionRequest{
		Code:           r.Code,
		Language:       strings.ToLower(r.Language),
		Stdin:          r.Stdin,
		ExpectedOutput: r.ExpectedOutput,
		CPUTimeLimitMs: r.CPUTimeLimitMs,
		MemoryLimitKB:  r.MemoryLimitKB,
	}
}

// Submit accepts one submission. With wait=true it blocks until a terminal
// state and returns the normalized result.
func (h *JudgeController) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "code and language are required")
		return
	}
	if len(req.Code) > maxCodeBytes {
		response.Error(c, appErr.New(appErr.CodeTooLarge))
		return
	}

	if req.Wait {
		res, err := h.svc.SubmitCode(c.Request.Context(), req.toExecutionRequest())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, res)
		return
	}

	token, err := h.svc.Submit(c.Request.Context(), req.toExecutionRequest())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"submission_id": token})
}

// batchSubmitRequest is the inbound batch DTO.
type batchSubmitRequest struct {
	Submissions []submitRequest `json:"submissions" binding:"required,min=1"`
}

// SubmitBatch accepts many submissions and returns tokens in input order.
func (h *JudgeController) SubmitBatch(c *gin.Context) {
	var req batchSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "submissions are required")
		return
	}

	reqs := make([]executor.ExecutionRequest, 0, len(req.Submissions))
	for _, sub := range req.Submissions {
		if len(sub.Code) > maxCodeBytes {
			response.Error(c, appErr.New(appErr.CodeTooLarge))
			return
		}
		reqs = append(reqs, sub.toExecutionRequest())
	}

	tokens, err := h.svc.SubmitBatch(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"submission_ids": tokens})
}

// GetStatus returns the raw compatibility payload for one token.
func (h *JudgeController) GetStatus(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.BadRequest(c, "submission token is required")
		return
	}
	status, err := h.svc.GetSubmissionStatus(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// GetResult returns the normalized result for a finished submission.
func (h *JudgeController) GetResult(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.BadRequest(c, "submission token is required")
		return
	}
	res, err := h.svc.GetResult(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
