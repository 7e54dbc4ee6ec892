package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"study-quiz-service/internal/app"
)

// Server exposes the quiz, progress, preference and reminder use cases over REST and WebSocket.
type Server struct {
	router    *chi.Mux
	quizzes   *app.QuizService
	catalog   *app.CatalogService
	progress  *app.ProgressService
	prefs     *app.Preferences
	reminders *app.Reminders
	ws        *WSHandler
}

func NewServer(quizzes *app.QuizService, catalog *app.CatalogService, progress *app.ProgressService, prefs *app.Preferences, reminders *app.Reminders) *Server {
	s := &Server{
		quizzes:   quizzes,
		catalog:   catalog,
		progress:  progress,
		prefs:     prefs,
		reminders: reminders,
		ws:        NewWSHandler(quizzes),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	// long-lived; kept out of the request timeout below
	r.Get("/ws", s.ws.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", s.handleListQuizzes)
			r.Get("/{quizID}", s.handleGetQuiz)
			r.Get("/{quizID}/results", s.handleQuizResults)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", s.handleListResults)
			r.Get("/{resultID}", s.handleGetResult)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Get("/{courseID}", s.handleGetCourse)
			r.Get("/{courseID}/lessons", s.handleListLessons)
		})

		r.Route("/lessons/{lessonID}", func(r chi.Router) {
			r.Get("/", s.handleGetLesson)
			r.Post("/complete", s.handleCompleteLesson)
			r.Put("/notes", s.handleUpdateNotes)
		})

		r.Get("/progress", s.handleProgress)
		r.Get("/achievements", s.handleAchievements)

		r.Get("/reminders", s.handleListReminders)
		r.Post("/reminders/{reminderID}/toggle", s.handleToggleReminder)

		r.Get("/preferences/{key}", s.handleGetPreference)
		r.Put("/preferences/{key}", s.handleSetPreference)

		r.Route("/learners/{learnerID}/session", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleAbandonSession)
			r.Post("/answer", s.handleSelectAnswer)
			r.Post("/next", s.handleAdvance)
			r.Post("/previous", s.handleRetreat)
			r.Post("/tick", s.handleTick)
			r.Post("/finish", s.handleFinish)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
