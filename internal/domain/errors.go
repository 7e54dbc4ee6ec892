package domain

import "errors"

var (
	// ErrInvalidQuiz is returned when a quiz definition cannot be played.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrInvalidAnswer indicates a question or option index out of range.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrSessionAlreadyActive is returned when a learner starts a quiz while another is in progress.
	ErrSessionAlreadyActive = errors.New("quiz session already active")
	// ErrSessionNotActive is returned when a session is acted upon after it left the in-progress state.
	ErrSessionNotActive = errors.New("quiz session not in progress")
	// ErrSessionNotFound is returned when a learner has no session at all.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrResultNotFound indicates an unknown result id.
	ErrResultNotFound = errors.New("quiz result not found")
	// ErrCourseNotFound indicates an unknown course id.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound indicates an unknown lesson id.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrPreferenceNotFound is returned for a preference key that was never set.
	ErrPreferenceNotFound = errors.New("preference not found")
	// ErrEmptyPreferenceKey rejects blank preference keys.
	ErrEmptyPreferenceKey = errors.New("preference key is empty")
	// ErrReminderNotFound indicates an unknown study reminder id.
	ErrReminderNotFound = errors.New("study reminder not found")
)
