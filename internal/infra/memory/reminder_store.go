package memory

import (
	"sync"

	"study-quiz-service/internal/domain"
)

// ReminderStore is an in-memory app.ReminderStore. Reads return copies.
type ReminderStore struct {
	mu        sync.RWMutex
	reminders []domain.StudyReminder
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{}
}

func (s *ReminderStore) SetReminders(reminders []domain.StudyReminder) {
	out := make([]domain.StudyReminder, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, copyReminder(r))
	}
	s.mu.Lock()
	s.reminders = out
	s.mu.Unlock()
}

func (s *ReminderStore) Reminders() []domain.StudyReminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StudyReminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, copyReminder(r))
	}
	return out
}

func (s *ReminderStore) ToggleReminder(reminderID string) (domain.StudyReminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == reminderID {
			s.reminders[i].Enabled = !s.reminders[i].Enabled
			return copyReminder(s.reminders[i]), true
		}
	}
	return domain.StudyReminder{}, false
}

func copyReminder(r domain.StudyReminder) domain.StudyReminder {
	r.Days = append([]string(nil), r.Days...)
	return r
}
