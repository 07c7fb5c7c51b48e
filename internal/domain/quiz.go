package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Question is a multiple-choice question with exactly one correct option.
type Question struct {
	ID            string   `json:"id" validate:"required"`
	Text          string   `json:"text" validate:"required"`
	Options       []Option `json:"options" validate:"min=2,max=5,dive"`
	CorrectOption string   `json:"correct_option" validate:"required"`
}

// Quiz represents a quiz in the domain. It is immutable once loaded.
type Quiz struct {
	ID           string     `json:"id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	Instructions string     `json:"instructions"`
	Category     string     `json:"category"`
	TimeLimit    string     `json:"time_limit"`
	Achievement  string     `json:"achievement"` // awarded on a passing score
	Questions    []Question `json:"questions" validate:"required,min=1,dive"`
}

// HasOption reports whether optionID is one of the question's options.
func (q *Question) HasOption(optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// IsCorrect reports whether optionID is the correct answer.
func (q *Question) IsCorrect(optionID string) bool {
	return optionID != "" && optionID == q.CorrectOption
}

func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// Validate checks the quiz definition. A quiz that fails here must never reach a session.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return NewInvalidQuizError(q.ID, "quiz has no questions")
	}
	if err := structValidator.Struct(q); err != nil {
		return NewInvalidQuizError(q.ID, describeFieldError(err))
	}

	seenQuestions := make(map[string]struct{}, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if _, dup := seenQuestions[question.ID]; dup {
			return NewInvalidQuizError(q.ID, fmt.Sprintf("duplicate question id %q", question.ID))
		}
		seenQuestions[question.ID] = struct{}{}

		seenOptions := make(map[string]struct{}, len(question.Options))
		matches := 0
		for _, o := range question.Options {
			if _, dup := seenOptions[o.ID]; dup {
				return NewInvalidQuizError(q.ID, fmt.Sprintf("duplicate option id %q in question %q", o.ID, question.ID))
			}
			seenOptions[o.ID] = struct{}{}
			if o.ID == question.CorrectOption {
				matches++
			}
		}
		if matches != 1 {
			return NewInvalidQuizError(q.ID, fmt.Sprintf("correct option %q of question %q matches no option", question.CorrectOption, question.ID))
		}
	}
	return nil
}

func describeFieldError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}
