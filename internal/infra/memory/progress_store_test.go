package memory

import (
	"math"
	"math/rand"
	"testing"

	"study-quiz-service/internal/domain"
)

func TestMarkLessonCompletedUpdatesCourse(t *testing.T) {
	store := seededProgress()

	lesson, ok := store.MarkLessonCompleted("l2")
	if !ok || !lesson.Completed {
		t.Fatalf("expected lesson completed, got %+v ok=%v", lesson, ok)
	}
	course, _ := store.Course("c1")
	if course.CompletedLessons != 2 || course.Progress != 50 {
		t.Fatalf("expected 2 completed and 50%%, got %d and %v", course.CompletedLessons, course.Progress)
	}
}

func TestMarkLessonCompletedIsIdempotent(t *testing.T) {
	store := seededProgress()

	store.MarkLessonCompleted("l2")
	store.MarkLessonCompleted("l2")

	course, _ := store.Course("c1")
	if course.CompletedLessons != 2 {
		t.Fatalf("expected a single increment, got %d", course.CompletedLessons)
	}

	// l1 arrived already completed, so it must not be credited again
	store.MarkLessonCompleted("l1")
	course, _ = store.Course("c1")
	if course.CompletedLessons != 2 {
		t.Fatalf("expected already completed lesson to be a no-op, got %d", course.CompletedLessons)
	}
}

func TestUnknownLessonIsNoop(t *testing.T) {
	store := seededProgress()
	before := store.Courses()

	if _, ok := store.MarkLessonCompleted("nope"); ok {
		t.Fatalf("expected unknown lesson to report not found")
	}
	if _, ok := store.UpdateLessonNotes("nope", "x"); ok {
		t.Fatalf("expected unknown lesson to report not found")
	}
	after := store.Courses()
	if before[0] != after[0] {
		t.Fatalf("expected courses unchanged, got %+v vs %+v", before[0], after[0])
	}
}

func TestUpdateLessonNotesReplaces(t *testing.T) {
	store := seededProgress()
	store.UpdateLessonNotes("l1", "first")
	lesson, ok := store.UpdateLessonNotes("l1", "")
	if !ok || lesson.Notes != "" {
		t.Fatalf("expected notes cleared, got %+v", lesson)
	}
}

func TestSetCoursesRecomputesProgress(t *testing.T) {
	store := NewProgressStore()
	store.SetCourses([]domain.Course{
		{ID: "drift", TotalLessons: 12, CompletedLessons: 4, Progress: 35},
		{ID: "over", TotalLessons: 2, CompletedLessons: 5},
		{ID: "empty", TotalLessons: 0, CompletedLessons: 0, Progress: 80},
	})

	drift, _ := store.Course("drift")
	if math.Abs(drift.Progress-100.0/3) > 1e-9 {
		t.Fatalf("expected recomputed progress, got %v", drift.Progress)
	}
	over, _ := store.Course("over")
	if over.CompletedLessons != 2 || over.Progress != 100 {
		t.Fatalf("expected clamped course, got %+v", over)
	}
	empty, _ := store.Course("empty")
	if empty.Progress != 0 {
		t.Fatalf("expected zero progress for empty course, got %v", empty.Progress)
	}
}

func TestSetLessonsForCourseReplacesOnlyThatCourse(t *testing.T) {
	store := seededProgress()
	store.SetLessonsForCourse("c2", []domain.Lesson{{ID: "m1", Title: "Mechanics"}})
	store.SetLessonsForCourse("c1", []domain.Lesson{{ID: "l9", Title: "Replacement"}})

	c1 := store.Lessons("c1")
	if len(c1) != 1 || c1[0].ID != "l9" {
		t.Fatalf("expected c1 replaced, got %+v", c1)
	}
	if _, ok := store.Lesson("l1"); ok {
		t.Fatalf("expected old lesson dropped")
	}
	c2 := store.Lessons("c2")
	if len(c2) != 1 || c2[0].CourseID != "c2" {
		t.Fatalf("expected c2 untouched, got %+v", c2)
	}
}

func TestProgressInvariantHoldsUnderRandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	store := NewProgressStore()
	store.SetCourses([]domain.Course{{ID: "c1", TotalLessons: 5, CompletedLessons: 3}})

	lessons := make([]domain.Lesson, 8)
	for i := range lessons {
		lessons[i] = domain.Lesson{ID: string(rune('a' + i))}
	}
	store.SetLessonsForCourse("c1", lessons)

	for i := 0; i < 200; i++ {
		id := string(rune('a' + rnd.Intn(10))) // some ids are unknown
		switch rnd.Intn(3) {
		case 0:
			store.MarkLessonCompleted(id)
		case 1:
			store.UpdateLessonNotes(id, "n")
		default:
			if rnd.Intn(20) == 0 {
				store.SetLessonsForCourse("c1", lessons)
			}
		}

		c, _ := store.Course("c1")
		if c.CompletedLessons < 0 || c.CompletedLessons > c.TotalLessons {
			t.Fatalf("completed out of bounds: %+v", c)
		}
		if c.Progress != domain.ProgressPercent(c.CompletedLessons, c.TotalLessons) {
			t.Fatalf("progress drifted: %+v", c)
		}
	}
}

func seededProgress() *ProgressStore {
	store := NewProgressStore()
	store.SetCourses([]domain.Course{
		{ID: "c1", Title: "Mathematics", TotalLessons: 4, CompletedLessons: 1},
		{ID: "c2", Title: "Physics", TotalLessons: 8, CompletedLessons: 6},
	})
	store.SetLessonsForCourse("c1", []domain.Lesson{
		{ID: "l1", Title: "Limits", Completed: true},
		{ID: "l2", Title: "Derivatives"},
	})
	return store
}
