package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	_, code := classify(err)
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and drives one learner's quiz session.
// Connecting again for the same quiz resumes the running session; disconnecting leaves it running.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	learnerID := r.URL.Query().Get("learnerId")
	quizID := r.URL.Query().Get("quizId")
	if learnerID == "" || quizID == "" {
		http.Error(w, "missing learnerId or quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	if err := h.ensureSession(ctx, learnerID, quizID); err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	updates, cancel, err := h.service.Subscribe(ctx, learnerID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer; gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("ws write error", "learner", learnerID, "error", err)
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var opErr error
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "invalid_request", Message: "invalid answer payload"}})
				continue
			}
			_, opErr = h.service.SelectAnswer(ctx, learnerID, payload.QuestionIndex, payload.OptionIndex)
		case "next":
			_, opErr = h.service.Advance(ctx, learnerID)
		case "previous":
			_, opErr = h.service.Retreat(ctx, learnerID)
		case "finish":
			_, opErr = h.service.Finish(ctx, learnerID)
		case "abandon":
			h.service.Abandon(ctx, learnerID)
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "invalid_request", Message: "unsupported message type"}})
			continue
		}
		// successful transitions reach the client through the subscription
		if opErr != nil {
			push(errorMessage(opErr))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// ensureSession starts the quiz, or resumes it when the learner is already taking the same one.
func (h *WSHandler) ensureSession(ctx context.Context, learnerID, quizID string) error {
	_, err := h.service.StartQuiz(ctx, learnerID, quizID)
	if errors.Is(err, domain.ErrSessionAlreadyActive) {
		if state, stateErr := h.service.State(ctx, learnerID); stateErr == nil && state.QuizID == quizID {
			return nil
		}
	}
	return err
}
