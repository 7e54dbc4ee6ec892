package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"study-quiz-service/internal/domain"
)

type startSessionRequest struct {
	QuizID string `json:"quizId"`
}

type answerRequest struct {
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

type tickRequest struct {
	Seconds int `json:"seconds"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.QuizID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "quizId is required")
		return
	}
	state, err := s.quizzes.StartQuiz(r.Context(), chi.URLParam(r, "learnerID"), req.QuizID)
	respondSession(w, http.StatusCreated, state, err)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.quizzes.State(r.Context(), chi.URLParam(r, "learnerID"))
	respondSession(w, http.StatusOK, state, err)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	s.quizzes.Abandon(r.Context(), chi.URLParam(r, "learnerID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	state, err := s.quizzes.SelectAnswer(r.Context(), chi.URLParam(r, "learnerID"), req.QuestionIndex, req.OptionIndex)
	respondSession(w, http.StatusOK, state, err)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	state, err := s.quizzes.Advance(r.Context(), chi.URLParam(r, "learnerID"))
	respondSession(w, http.StatusOK, state, err)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	state, err := s.quizzes.Retreat(r.Context(), chi.URLParam(r, "learnerID"))
	respondSession(w, http.StatusOK, state, err)
}

// handleTick lets an external scheduler drive the countdown; an empty body counts as one second.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	req := tickRequest{Seconds: 1}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}
	state, err := s.quizzes.Tick(r.Context(), chi.URLParam(r, "learnerID"), req.Seconds)
	respondSession(w, http.StatusOK, state, err)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	state, err := s.quizzes.Finish(r.Context(), chi.URLParam(r, "learnerID"))
	respondSession(w, http.StatusOK, state, err)
}

func respondSession(w http.ResponseWriter, status int, state domain.SessionState, err error) {
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, status, state)
}
