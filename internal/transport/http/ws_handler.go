package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/config"
	"spearid-quiz-service/internal/domain"
	"spearid-quiz-service/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler plays a quiz session over a websocket.
type WSHandler struct {
	service      *app.QuizService
	defaultCount int
	validate     *validator.Validate
	upgrader     websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultCount int) *WSHandler {
	return &WSHandler{
		service:      service,
		defaultCount: defaultCount,
		validate:     validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Selected string `json:"selected" validate:"required"`
}

type startedPayload struct {
	SessionID      string `json:"sessionId"`
	TotalQuestions int    `json:"totalQuestions"`
}

type answerResult struct {
	domain.AnswerRecord
	Score int `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// A new session is built unless sessionId names one to resume.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	count, err := parseCount(r.URL.Query().Get("count"), h.defaultCount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	state, err := h.open(ctx, &sessionID, count)
	if err != nil {
		h.writeOpenError(conn, err)
		return
	}

	if err := conn.WriteJSON(outboundMessage[startedPayload]{Type: "started", Payload: startedPayload{
		SessionID:      sessionID,
		TotalQuestions: len(state.Questions),
	}}); err != nil {
		return
	}
	if err := h.writeQuestion(conn, state); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		var msg any
		done := false
		switch inbound.Type {
		case "answer":
			msg = h.handleAnswer(ctx, sessionID, inbound.Payload)
		case "next":
			msg, done = h.handleNext(ctx, sessionID)
		default:
			msg = errorMessage("unsupported message type")
		}

		if err := conn.WriteJSON(msg); err != nil {
			logger.Get().Debug("ws write error", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		if done {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "quiz completed"))
			return
		}
	}
}

func (h *WSHandler) open(ctx context.Context, sessionID *string, count int) (app.QuizState, error) {
	if *sessionID != "" {
		return h.service.Resume(ctx, *sessionID)
	}
	id, state, err := h.service.Start(ctx, count)
	*sessionID = id
	return state, err
}

func (h *WSHandler) handleAnswer(ctx context.Context, sessionID string, raw json.RawMessage) any {
	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errorMessage("invalid answer payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return errorMessage("invalid answer payload")
	}

	record, state, err := h.service.Answer(ctx, sessionID, payload.Selected)
	if err != nil {
		return errorMessage(publicError(err))
	}
	return outboundMessage[answerResult]{Type: "answerResult", Payload: answerResult{
		AnswerRecord: record,
		Score:        state.Score,
	}}
}

func (h *WSHandler) handleNext(ctx context.Context, sessionID string) (any, bool) {
	state, results, err := h.service.Next(ctx, sessionID)
	if err != nil {
		return errorMessage(publicError(err)), false
	}
	if results != nil {
		return outboundMessage[domain.Results]{Type: "completed", Payload: *results}, true
	}
	view, _ := state.View()
	return outboundMessage[domain.QuestionView]{Type: "question", Payload: view}, false
}

// writeQuestion sends the current question, and its recorded answer when a
// resumed session had already answered it.
func (h *WSHandler) writeQuestion(conn *websocket.Conn, state app.QuizState) error {
	view, ok := state.View()
	if !ok {
		return conn.WriteJSON(errorMessage(domain.ErrSessionCompleted.Error()))
	}
	if err := conn.WriteJSON(outboundMessage[domain.QuestionView]{Type: "question", Payload: view}); err != nil {
		return err
	}
	if state.Answered && len(state.AnswerLog) > 0 {
		return conn.WriteJSON(outboundMessage[answerResult]{Type: "answerResult", Payload: answerResult{
			AnswerRecord: state.AnswerLog[len(state.AnswerLog)-1],
			Score:        state.Score,
		}})
	}
	return nil
}

func (h *WSHandler) writeOpenError(conn *websocket.Conn, err error) {
	if errors.Is(err, domain.ErrNoQuestions) {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "unavailable", Payload: errorPayload{Message: err.Error()}})
		return
	}
	_ = conn.WriteJSON(errorMessage(publicError(err)))
}

func errorMessage(message string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}
}

// publicError hides data access failures behind a generic message.
func publicError(err error) string {
	for _, known := range []error{
		domain.ErrSessionNotFound,
		domain.ErrNoQuestions,
		domain.ErrNotAnswered,
		domain.ErrAlreadyAnswered,
		domain.ErrSessionCompleted,
		domain.ErrConcurrentUpdate,
		domain.ErrInvalidCount,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	logger.Get().Error("quiz request failed", zap.Error(err))
	return "failed to load quiz"
}

func parseCount(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidCount
	}
	return min(n, config.MaxQuestionCount), nil
}
