package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ataljudge/internal/judge/executor"
	"ataljudge/internal/judge/model"
	appErr "ataljudge/pkg/errors"
	"ataljudge/pkg/utils/logger"
	"ataljudge/pkg/utils/response"

	"go.uber.org/zap"
)

// writeTimeout bounds each websocket write.
const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// batchWaitFrame is a single websocket message on the batch wait stream.
// Exactly one of Progress, Statuses or Error is set.
type batchWaitFrame struct {
	Type     string                    `json:"type"`
	Progress *model.BatchProgress      `json:"progress,omitempty"`
	Statuses []executor.ExecutionState `json:"statuses,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// WaitBatch streams batch completion progress over a websocket. Tokens are
// passed as a comma separated list in the tokens query parameter. One frame
// is sent per poll tick, then a final done or error frame before close.
func (h *JudgeController) WaitBatch(c *gin.Context) {
	tokens := splitTokens(c.Query("tokens"))
	if len(tokens) == 0 {
		response.BadRequest(c, "tokens query parameter is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	onProgress := func(p model.BatchProgress) {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(batchWaitFrame{Type: "progress", Progress: &p}); err != nil {
			logger.Debug(ctx, "progress frame dropped", zap.Error(err))
		}
	}

	states, err := h.svc.WaitForBatchWithCallback(ctx, tokens, onProgress, 0, 0)
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err != nil {
		logger.Warn(ctx, "batch wait failed", zap.Error(err))
		conn.WriteJSON(batchWaitFrame{Type: "error", Error: appErr.GetError(err).Error()})
		return
	}
	conn.WriteJSON(batchWaitFrame{Type: "done", Statuses: states})
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func splitTokens(raw string) []string {
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
