package memory

import (
	"sync"

	"study-quiz-service/internal/domain"
)

// ProgressStore holds courses and their lessons. Course counts are tracked on the course
// itself; the lesson list of a course may be partial.
type ProgressStore struct {
	mu          sync.RWMutex
	courses     map[string]*domain.Course
	courseOrder []string
	lessons     map[string]*domain.Lesson
	byCourse    map[string][]string
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		courses:  make(map[string]*domain.Course),
		lessons:  make(map[string]*domain.Lesson),
		byCourse: make(map[string][]string),
	}
}

// SetCourses replaces the course collection; incoming progress values are recomputed.
func (s *ProgressStore) SetCourses(courses []domain.Course) {
	byID := make(map[string]*domain.Course, len(courses))
	order := make([]string, 0, len(courses))
	for _, c := range courses {
		course := c
		course.Recalculate()
		if _, seen := byID[course.ID]; !seen {
			order = append(order, course.ID)
		}
		byID[course.ID] = &course
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = byID
	s.courseOrder = order
}

// SetLessonsForCourse replaces the lessons of one course, leaving other courses untouched.
func (s *ProgressStore) SetLessonsForCourse(courseID string, lessons []domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byCourse[courseID] {
		delete(s.lessons, id)
	}

	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		lesson := l
		lesson.CourseID = courseID
		if prev, ok := s.lessons[lesson.ID]; ok && prev.CourseID != courseID {
			s.byCourse[prev.CourseID] = without(s.byCourse[prev.CourseID], lesson.ID)
		}
		if !contains(ids, lesson.ID) {
			ids = append(ids, lesson.ID)
		}
		s.lessons[lesson.ID] = &lesson
	}
	s.byCourse[courseID] = ids
}

// MarkLessonCompleted flips completed once and credits the owning course exactly once.
func (s *ProgressStore) MarkLessonCompleted(lessonID string) (domain.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, ok := s.lessons[lessonID]
	if !ok {
		return domain.Lesson{}, false
	}
	if lesson.Completed {
		return *lesson, true
	}
	lesson.Completed = true

	if course, ok := s.courses[lesson.CourseID]; ok {
		course.CompletedLessons++
		course.Recalculate()
	}
	return *lesson, true
}

func (s *ProgressStore) UpdateLessonNotes(lessonID, notes string) (domain.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, ok := s.lessons[lessonID]
	if !ok {
		return domain.Lesson{}, false
	}
	lesson.Notes = notes
	return *lesson, true
}

func (s *ProgressStore) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Course, 0, len(s.courseOrder))
	for _, id := range s.courseOrder {
		out = append(out, *s.courses[id])
	}
	return out
}

func (s *ProgressStore) Course(courseID string) (domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[courseID]
	if !ok {
		return domain.Course{}, false
	}
	return *course, true
}

func (s *ProgressStore) Lessons(courseID string) []domain.Lesson {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byCourse[courseID]
	out := make([]domain.Lesson, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.lessons[id])
	}
	return out
}

func (s *ProgressStore) Lesson(lessonID string) (domain.Lesson, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[lessonID]
	if !ok {
		return domain.Lesson{}, false
	}
	return *lesson, true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
