package domain

import "context"

// QuizRepository is the read-only quiz data source.
type QuizRepository interface {
	// GetQuizByID returns a validated quiz or a QUIZ_NOT_FOUND error.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
}

// CourseRepository is the read-only course data source.
type CourseRepository interface {
	GetCourseByID(ctx context.Context, id string) (*Course, error)
	// GetLesson resolves a lesson inside a course.
	GetLesson(ctx context.Context, courseID, lessonID string) (*Course, *Lesson, error)
}

// Toast is a short learner-facing notification.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notifier delivers toasts. Callers do not wait for the learner to see them.
type Notifier interface {
	Notify(ctx context.Context, toast Toast) error
}
