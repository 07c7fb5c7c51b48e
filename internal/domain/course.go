package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^\d+:[0-5]\d$`)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	return v
}

// Course is a catalog course. Only the fields the lesson player needs are modelled.
type Course struct {
	ID         string   `json:"id" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Category   string   `json:"category"`
	Level      string   `json:"level"`
	Instructor string   `json:"instructor"`
	VideoURL   string   `json:"video_url" validate:"required,url"`
	Thumbnail  string   `json:"thumbnail" validate:"omitempty,url"`
	Modules    []Module `json:"modules" validate:"required,min=1,dive"`
}

type Module struct {
	ID      string   `json:"id" validate:"required"`
	Title   string   `json:"title" validate:"required"`
	Lessons []Lesson `json:"lessons" validate:"required,min=1,dive"`
}

// Lesson is a single video lesson. Duration is written as "m:ss".
type Lesson struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Duration string `json:"duration" validate:"required,clock"`
}

// Length parses the lesson's "m:ss" duration.
func (l *Lesson) Length() (time.Duration, error) {
	return ParseClock(l.Duration)
}

// Lesson finds a lesson by id across all modules.
func (c *Course) Lesson(lessonID string) (*Module, *Lesson, bool) {
	for i := range c.Modules {
		m := &c.Modules[i]
		for j := range m.Lessons {
			if m.Lessons[j].ID == lessonID {
				return m, &m.Lessons[j], true
			}
		}
	}
	return nil, nil, false
}

func (c *Course) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return NewError(CodeInvalidInput, fmt.Sprintf("course %q is malformed: %s", c.ID, describeFieldError(err)), nil)
	}
	seen := make(map[string]struct{})
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if _, dup := seen[l.ID]; dup {
				return NewError(CodeInvalidInput, fmt.Sprintf("course %q has duplicate lesson id %q", c.ID, l.ID), nil)
			}
			seen[l.ID] = struct{}{}
		}
	}
	return nil
}

// ParseClock parses "m:ss" into a duration.
func ParseClock(s string) (time.Duration, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	parts := strings.SplitN(s, ":", 2)
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
	}
	return time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second, nil
}
