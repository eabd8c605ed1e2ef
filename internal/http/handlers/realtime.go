package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/projectreview-backend/internal/http/response"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/realtime"
	"github.com/yungbote/projectreview-backend/internal/services"
)

type RealtimeHandler struct {
	Log     *logger.Logger
	Hub     *realtime.SSEHub
	Reviews services.ReviewService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, reviews services.ReviewService) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		Reviews: reviews,
	}
}

// ReviewStream streams the candidate-facing messages of one review session.
// Closed sessions are rejected since nothing more will be published.
func (h *RealtimeHandler) ReviewStream(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("id"))
	s, err := h.Reviews.Get(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if s.Phase.Terminal() {
		response.RespondError(c, http.StatusConflict, "session_closed", errSessionClosed)
		return
	}

	client := h.Hub.NewSSEClient(sessionID)
	h.Hub.AddChannel(client, realtime.ReviewChannel(sessionID))
	h.Log.Debug("review stream open", "session_id", sessionID, "client_id", client.ID)

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.Hub.CloseClient(client)
	h.Log.Debug("review stream closed", "session_id", sessionID, "client_id", client.ID)
}
