package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"study-quiz-service/internal/domain"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Error: &apiError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps sentinel errors onto status codes; anything else is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondError(w, status, code, "internal server error")
		return
	}
	respondError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuiz):
		return http.StatusUnprocessableEntity, "invalid_quiz"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity, "invalid_answer"
	case errors.Is(err, domain.ErrSessionAlreadyActive):
		return http.StatusConflict, "session_active"
	case errors.Is(err, domain.ErrSessionNotActive):
		return http.StatusConflict, "session_not_active"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound, "quiz_not_found"
	case errors.Is(err, domain.ErrResultNotFound):
		return http.StatusNotFound, "result_not_found"
	case errors.Is(err, domain.ErrCourseNotFound):
		return http.StatusNotFound, "course_not_found"
	case errors.Is(err, domain.ErrLessonNotFound):
		return http.StatusNotFound, "lesson_not_found"
	case errors.Is(err, domain.ErrPreferenceNotFound):
		return http.StatusNotFound, "preference_not_found"
	case errors.Is(err, domain.ErrReminderNotFound):
		return http.StatusNotFound, "reminder_not_found"
	case errors.Is(err, domain.ErrEmptyPreferenceKey):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
