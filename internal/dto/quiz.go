package dto

import "learnflow/internal/quiz"

// QuizIntroResponse is the pre-start screen of a quiz. Answer keys are never exposed.
// @Description Quiz introduction
type QuizIntroResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
	Category      string `json:"category,omitempty"`
	TimeLimit     string `json:"time_limit,omitempty"`
	Achievement   string `json:"achievement,omitempty"`
	QuestionCount int    `json:"question_count"`
}

type OptionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionResponse struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Options []OptionResponse `json:"options"`
}

// SessionResponse is the current view of a quiz session.
// @Description Quiz session state
type SessionResponse struct {
	SessionID       string            `json:"session_id"`
	QuizID          string            `json:"quiz_id"`
	QuizTitle       string            `json:"quiz_title"`
	Status          string            `json:"status"`
	Index           int               `json:"index"`
	QuestionNumber  int               `json:"question_number"`
	TotalQuestions  int               `json:"total_questions"`
	ProgressPercent int               `json:"progress_percent"`
	Question        *QuestionResponse `json:"question,omitempty"`
	SelectedOption  string            `json:"selected_option,omitempty"`
	CanAdvance      bool              `json:"can_advance"`
	CanRetreat      bool              `json:"can_retreat"`
	IsFirst         bool              `json:"is_first"`
	IsLast          bool              `json:"is_last"`
	// Applied is set on command responses; false means the command was not valid in this state.
	Applied *bool `json:"applied,omitempty"`
}

// SelectAnswerRequest picks an option for the current question
// @Description Request body for selecting an answer
type SelectAnswerRequest struct {
	OptionID string `json:"option_id" validate:"required,max=64"`
}

// ResultResponse is the results screen of a completed session.
type ResultResponse struct {
	SessionID string `json:"session_id"`
	quiz.Result
}

// FinishResponse tells the client where to go after the quiz.
type FinishResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}
