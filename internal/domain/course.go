package domain

// Course aggregates lesson completion; Progress is always derived from the two counts.
type Course struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Thumbnail        string  `json:"thumbnail,omitempty"`
	Category         string  `json:"category"`
	Progress         float64 `json:"progress"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
}

// Recalculate clamps CompletedLessons into [0, TotalLessons] and derives Progress from it.
func (c *Course) Recalculate() {
	if c.TotalLessons < 0 {
		c.TotalLessons = 0
	}
	if c.CompletedLessons < 0 {
		c.CompletedLessons = 0
	}
	if c.CompletedLessons > c.TotalLessons {
		c.CompletedLessons = c.TotalLessons
	}
	c.Progress = ProgressPercent(c.CompletedLessons, c.TotalLessons)
}

// ProgressPercent returns completed/total*100 clamped to [0, 100]; zero total yields 0.
func ProgressPercent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(completed) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Lesson belongs to exactly one course. Completed only ever moves from false to true.
type Lesson struct {
	ID          string `json:"id"`
	CourseID    string `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Completed   bool   `json:"completed"`
	Duration    int    `json:"duration"` // minutes
}

// ProgressOverview is the dashboard-level rollup of courses and quiz history.
type ProgressOverview struct {
	Courses          int     `json:"courses"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	OverallProgress  float64 `json:"overallProgress"`
	QuizzesTaken     int     `json:"quizzesTaken"`
	AverageQuizScore float64 `json:"averageQuizScore"`
	PassRate         float64 `json:"passRate"`
}
