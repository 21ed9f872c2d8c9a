package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/integrity"
	"github.com/syllabuser/baire-backend/internal/middleware"
	"github.com/syllabuser/baire-backend/internal/service"
	ws "github.com/syllabuser/baire-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live attempt over WebSocket: answer saves, cursor
// moves, integrity reports, and submission. Every action routes through the
// same attempt service the HTTP endpoints use, so the at-most-once
// submission guard holds across both transports.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/exams/:id/stream
// Upgrades to WebSocket for the live exam-taking loop.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	studentID := claims.UserID

	// The attempt must already exist; the client starts it over HTTP first.
	if _, err := h.attemptService.State(c.Request.Context(), studentID, examID); err != nil {
		ws.WriteError(conn, "no active attempt for this exam")
		return
	}

	wsLog := h.log.With().
		Str("student_id", studentID.String()).
		Str("exam_id", examID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			ws.WriteError(conn, "malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			h.handleAnswer(c, conn, studentID, examID, raw)
		case ws.ActionNavigate:
			h.handleNavigate(c, conn, studentID, examID, raw)
		case ws.ActionIntegrity:
			h.handleIntegrity(c, conn, studentID, examID, raw)
		case ws.ActionSubmit:
			h.handleSubmit(c, conn, wsLog, studentID, examID)
			return
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(envelope.Action))
		}
	}
}

func (h *WSHandler) handleAnswer(c *gin.Context, conn *websocket.Conn, studentID, examID uuid.UUID, raw []byte) {
	var req ws.AnswerRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		ws.WriteError(conn, "malformed answer")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		ws.WriteError(conn, "invalid question_id format")
		return
	}

	if err := h.attemptService.Answer(c.Request.Context(), studentID, examID, questionID, req.Option); err != nil {
		ws.WriteError(conn, err.Error())
		return
	}
	ws.WriteTyped(conn, ws.SavedResponse{Event: ws.EventSaved, Status: "saved"})
}

func (h *WSHandler) handleNavigate(c *gin.Context, conn *websocket.Conn, studentID, examID uuid.UUID, raw []byte) {
	var req ws.NavigateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		ws.WriteError(conn, "malformed navigate")
		return
	}

	cursor, err := h.attemptService.Navigate(c.Request.Context(), studentID, examID, req.Delta)
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}
	ws.WriteTyped(conn, ws.CursorResponse{Event: ws.EventCursor, Cursor: cursor})
}

func (h *WSHandler) handleIntegrity(c *gin.Context, conn *websocket.Conn, studentID, examID uuid.UUID, raw []byte) {
	var req ws.IntegrityRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		ws.WriteError(conn, "malformed integrity report")
		return
	}

	err := h.attemptService.RecordIntegrity(c.Request.Context(), studentID, examID, integrity.EventKind(req.Kind))
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}
	ws.WriteTyped(conn, ws.SavedResponse{Event: ws.EventSaved, Status: "recorded"})
}

func (h *WSHandler) handleSubmit(c *gin.Context, conn *websocket.Conn, wsLog zerolog.Logger, studentID, examID uuid.UUID) {
	result, err := h.attemptService.Submit(c.Request.Context(), studentID, examID)
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}

	wsLog.Info().
		Float64("net_mark", result.NetMark).
		Int("correct", result.CorrectAnswers).
		Int("total", result.TotalQuestions).
		Msg("Attempt submitted and graded")

	ws.WriteTyped(conn, ws.GradedResponse{
		Event:   ws.EventGraded,
		Status:  "completed",
		NetMark: result.NetMark,
	})
}
