// Package catalog serves the built-in quiz and course content.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"learnflow/internal/domain"
)

//go:embed data/*.json
var embedded embed.FS

const (
	quizzesFile = "data/quizzes.json"
	coursesFile = "data/courses.json"
)

// Catalog is an in-memory, read-only store of validated quizzes and courses.
type Catalog struct {
	quizzes map[string]*domain.Quiz
	courses map[string]*domain.Course
}

var (
	_ domain.QuizRepository   = (*Catalog)(nil)
	_ domain.CourseRepository = (*Catalog)(nil)
)

// NewEmbedded loads the content shipped with the binary.
func NewEmbedded() (*Catalog, error) {
	return Load(embedded)
}

// Load reads quizzes and courses from fsys. Any malformed entry fails the whole load.
func Load(fsys fs.FS) (*Catalog, error) {
	var quizzes []*domain.Quiz
	if err := readJSON(fsys, quizzesFile, &quizzes); err != nil {
		return nil, err
	}
	var courses []*domain.Course
	if err := readJSON(fsys, coursesFile, &courses); err != nil {
		return nil, err
	}
	return New(quizzes, courses)
}

// New validates and indexes the given content.
func New(quizzes []*domain.Quiz, courses []*domain.Course) (*Catalog, error) {
	c := &Catalog{
		quizzes: make(map[string]*domain.Quiz, len(quizzes)),
		courses: make(map[string]*domain.Course, len(courses)),
	}
	for _, q := range quizzes {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.quizzes[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		c.quizzes[q.ID] = q
	}
	for _, course := range courses {
		if err := course.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.courses[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		c.courses[course.ID] = course
	}
	return c, nil
}

func readJSON(fsys fs.FS, name string, v interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (c *Catalog) GetQuizByID(_ context.Context, id string) (*domain.Quiz, error) {
	q, ok := c.quizzes[id]
	if !ok {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return q, nil
}

// GetCourseByID implements domain.CourseRepository
func (c *Catalog) GetCourseByID(_ context.Context, id string) (*domain.Course, error) {
	course, ok := c.courses[id]
	if !ok {
		return nil, domain.NewCourseNotFoundError(id)
	}
	return course, nil
}

// GetLesson implements domain.CourseRepository
func (c *Catalog) GetLesson(ctx context.Context, courseID, lessonID string) (*domain.Course, *domain.Lesson, error) {
	course, err := c.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	_, lesson, ok := course.Lesson(lessonID)
	if !ok {
		return nil, nil, domain.NewLessonNotFoundError(courseID, lessonID)
	}
	return course, lesson, nil
}
