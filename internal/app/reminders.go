package app

import (
	"fmt"

	"study-quiz-service/internal/domain"
)

// ReminderStore keeps study reminders in insertion order.
type ReminderStore interface {
	SetReminders(reminders []domain.StudyReminder)
	Reminders() []domain.StudyReminder
	ToggleReminder(reminderID string) (domain.StudyReminder, bool)
}

type Reminders struct {
	store ReminderStore
}

func NewReminders(store ReminderStore) *Reminders {
	return &Reminders{store: store}
}

func (r *Reminders) SetReminders(reminders []domain.StudyReminder) {
	r.store.SetReminders(reminders)
}

func (r *Reminders) List() []domain.StudyReminder {
	return r.store.Reminders()
}

// Toggle flips a reminder between enabled and disabled.
func (r *Reminders) Toggle(reminderID string) (domain.StudyReminder, error) {
	reminder, ok := r.store.ToggleReminder(reminderID)
	if !ok {
		return domain.StudyReminder{}, fmt.Errorf("%w: %s", domain.ErrReminderNotFound, reminderID)
	}
	return reminder, nil
}
