package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Catalog errors
	CodeQuizNotFound   ErrorCode = "QUIZ_NOT_FOUND"
	CodeCourseNotFound ErrorCode = "COURSE_NOT_FOUND"
	CodeLessonNotFound ErrorCode = "LESSON_NOT_FOUND"
	CodeInvalidQuiz    ErrorCode = "INVALID_QUIZ"

	// Session and player errors
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodePlaybackNotFound  ErrorCode = "PLAYBACK_NOT_FOUND"
	CodeInvalidOption     ErrorCode = "INVALID_OPTION"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that is reported back to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsNotFound reports whether the code belongs to the not-found family.
func (c ErrorCode) IsNotFound() bool {
	switch c {
	case CodeNotFound, CodeQuizNotFound, CodeCourseNotFound, CodeLessonNotFound,
		CodeSessionNotFound, CodePlaybackNotFound:
		return true
	}
	return false
}

func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil).
		WithContext("quiz_id", quizID)
}

func NewCourseNotFoundError(courseID string) *DomainError {
	return NewError(CodeCourseNotFound, fmt.Sprintf("Course not found with ID: %s", courseID), nil).
		WithContext("course_id", courseID)
}

func NewLessonNotFoundError(courseID, lessonID string) *DomainError {
	return NewError(CodeLessonNotFound, fmt.Sprintf("Lesson %s not found in course %s", lessonID, courseID), nil).
		WithContext("course_id", courseID).
		WithContext("lesson_id", lessonID)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Quiz session not found with ID: %s", sessionID), nil).
		WithContext("session_id", sessionID)
}

func NewPlaybackNotFoundError(playbackID string) *DomainError {
	return NewError(CodePlaybackNotFound, fmt.Sprintf("Player not found with ID: %s", playbackID), nil).
		WithContext("playback_id", playbackID)
}

func NewInvalidQuizError(quizID, reason string) *DomainError {
	return NewError(CodeInvalidQuiz, fmt.Sprintf("Quiz %q is malformed: %s", quizID, reason), nil).
		WithContext("quiz_id", quizID)
}

func NewInvalidOptionError(questionID, optionID string) *DomainError {
	return NewError(CodeInvalidOption, fmt.Sprintf("Option %q does not belong to question %q", optionID, questionID), nil).
		WithContext("question_id", questionID).
		WithContext("option_id", optionID)
}

func NewInvalidTransitionError(message string) *DomainError {
	return NewError(CodeInvalidTransition, message, nil)
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("field must be between %v and %v", min, max),
		Value:   value,
	}
}
