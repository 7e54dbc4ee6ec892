package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

// quizView is the catalog-facing shape of a quiz; answers stay hidden until a session ends.
type quizView struct {
	ID               string `json:"id"`
	CourseID         string `json:"courseId,omitempty"`
	LessonID         string `json:"lessonId,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	QuestionCount    int    `json:"questionCount"`
	TimePerQuestion  int    `json:"timePerQuestion"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

func newQuizView(q domain.Quiz) quizView {
	return quizView{
		ID:               q.ID,
		CourseID:         q.CourseID,
		LessonID:         q.LessonID,
		Title:            q.Title,
		Description:      q.Description,
		QuestionCount:    len(q.Questions),
		TimePerQuestion:  q.TimePerQuestion,
		EstimatedMinutes: q.EstimatedMinutes(),
	}
}

type quizResultsResponse struct {
	Results []domain.QuizResult  `json:"results"`
	Summary domain.ResultSummary `json:"summary"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type preferenceBody struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Health

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Catalog handlers

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.catalog.ListQuizzes(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	views := make([]quizView, 0, len(quizzes))
	for _, q := range quizzes {
		views = append(views, newQuizView(q))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.catalog.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newQuizView(quiz))
}

func (s *Server) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	if _, err := s.catalog.GetQuiz(r.Context(), quizID); err != nil {
		respondDomainError(w, err)
		return
	}
	results, err := s.catalog.ListResults(r.Context(), quizID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quizResultsResponse{
		Results: results,
		Summary: app.Summarize(results),
	})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.catalog.ListResults(r.Context(), r.URL.Query().Get("quizId"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.catalog.GetResult(r.Context(), chi.URLParam(r, "resultID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Progress handlers

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.progress.Courses())
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.progress.Course(chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, course)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.progress.Lessons(chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.progress.Lesson(chi.URLParam(r, "lessonID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	lesson, ok := s.progress.MarkLessonCompleted(lessonID)
	if !ok {
		respondDomainError(w, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID))
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	lessonID := chi.URLParam(r, "lessonID")
	lesson, ok := s.progress.UpdateLessonNotes(lessonID, req.Notes)
	if !ok {
		respondDomainError(w, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID))
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	overview, err := s.progress.Overview(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.progress.Achievements(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, achievements)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reminders.List())
}

func (s *Server) handleToggleReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.reminders.Toggle(chi.URLParam(r, "reminderID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reminder)
}

// Preference handlers

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := s.prefs.Get(r.Context(), key)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preferenceBody{Key: key, Value: value})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceBody
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.prefs.Set(r.Context(), key, req.Value); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preferenceBody{Key: key, Value: req.Value})
}
