package domain

// Achievement is a milestone derived from course progress and quiz history.
// Progress counts toward Target and is capped at it; one-off milestones use a target of 1.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

// StudyReminder is a recurring study nudge at Time ("HH:MM") on the listed weekdays.
type StudyReminder struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Time    string   `json:"time"`
	Days    []string `json:"days"` // mon..sun
	Enabled bool     `json:"enabled"`
}
