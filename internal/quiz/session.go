// Package quiz implements the quiz-taking state machine: question navigation,
// answer capture, scoring and pass/fail determination for one learner attempt.
package quiz

import (
	"fmt"

	"learnflow/internal/domain"
)

// PassThreshold is the minimum score, in percent, that passes a quiz.
const PassThreshold = 70

// Status is the lifecycle state of a Session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// AnswerRecord maps question id to the selected option id.
type AnswerRecord map[string]string

// Session is one learner's attempt at one quiz. It is not safe for concurrent use.
type Session struct {
	quiz    *domain.Quiz
	status  Status
	index   int
	answers AnswerRecord
}

// NewSession validates quiz and returns a session in StatusNotStarted.
func NewSession(quiz *domain.Quiz) (*Session, error) {
	if quiz == nil {
		return nil, domain.NewInvalidInputError("quiz is required")
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		quiz:    quiz,
		status:  StatusNotStarted,
		answers: make(AnswerRecord),
	}, nil
}

func (s *Session) Quiz() *domain.Quiz { return s.quiz }
func (s *Session) Status() Status     { return s.status }
func (s *Session) Index() int         { return s.index }

// Start moves the session to StatusInProgress at the first question with no answers.
// It doubles as the restart action from StatusCompleted. An attempt already in
// progress is left alone and Start reports false.
func (s *Session) Start() bool {
	if s.status == StatusInProgress {
		return false
	}
	s.status = StatusInProgress
	s.index = 0
	s.answers = make(AnswerRecord)
	return true
}

// SelectAnswer records optionID for the current question without advancing.
// It is a no-op unless the session is in progress; once completed the
// answers are frozen for review.
func (s *Session) SelectAnswer(optionID string) (bool, error) {
	if s.status != StatusInProgress {
		return false, nil
	}
	q := s.CurrentQuestion()
	if !q.HasOption(optionID) {
		return false, domain.NewInvalidOptionError(q.ID, optionID)
	}
	s.answers[q.ID] = optionID
	return true, nil
}

// Advance moves to the next question, or completes the session from the last one.
// It requires an answer for the current question and reports whether it moved.
func (s *Session) Advance() bool {
	if !s.CanAdvance() {
		return false
	}
	if s.IsLast() {
		s.status = StatusCompleted
		return true
	}
	s.index++
	return true
}

// Retreat moves back one question. It is a no-op at the first question.
func (s *Session) Retreat() bool {
	if !s.CanRetreat() {
		return false
	}
	s.index--
	return true
}

// CanAdvance reports whether the Next/Submit control is enabled.
func (s *Session) CanAdvance() bool {
	if s.status != StatusInProgress {
		return false
	}
	_, answered := s.answers[s.CurrentQuestion().ID]
	return answered
}

// CanRetreat reports whether the Previous control is enabled.
func (s *Session) CanRetreat() bool {
	return s.status == StatusInProgress && s.index > 0
}

func (s *Session) IsFirst() bool { return s.index == 0 }
func (s *Session) IsLast() bool  { return s.index == len(s.quiz.Questions)-1 }

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() *domain.Question {
	return &s.quiz.Questions[s.index]
}

// SelectedOption returns the recorded option for questionID.
func (s *Session) SelectedOption(questionID string) (string, bool) {
	optionID, ok := s.answers[questionID]
	return optionID, ok
}

// Answers returns a copy of the answer record.
func (s *Session) Answers() AnswerRecord {
	out := make(AnswerRecord, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// PercentComplete is the progress shown above the current question,
// counting the current question as reached.
func (s *Session) PercentComplete() int {
	return roundPercent(s.index+1, len(s.quiz.Questions))
}

// CorrectCount counts questions whose recorded answer is the correct option.
func (s *Session) CorrectCount() int {
	correct := 0
	for i := range s.quiz.Questions {
		q := &s.quiz.Questions[i]
		if q.IsCorrect(s.answers[q.ID]) {
			correct++
		}
	}
	return correct
}

// IncorrectCount counts wrong and unanswered questions.
func (s *Session) IncorrectCount() int {
	return len(s.quiz.Questions) - s.CorrectCount()
}

// Score is round(100 * correct / total), half up. It is 0 until the session completes.
func (s *Session) Score() int {
	if s.status != StatusCompleted {
		return 0
	}
	return roundPercent(s.CorrectCount(), len(s.quiz.Questions))
}

// Passed reports whether the completed session reached PassThreshold.
func (s *Session) Passed() bool {
	return s.status == StatusCompleted && s.Score() >= PassThreshold
}

// roundPercent computes round(100*n/d) with half-up rounding in integer arithmetic.
// d is never zero because empty quizzes are rejected by NewSession.
func roundPercent(n, d int) int {
	return (200*n + d) / (2 * d)
}

// CompletionToast builds the toast shown when the learner finishes a completed attempt.
func (s *Session) CompletionToast() (domain.Toast, error) {
	if s.status != StatusCompleted {
		return domain.Toast{}, domain.NewInvalidTransitionError("quiz must be completed before it can be finished")
	}
	return domain.Toast{
		Title:       "Quiz Completed!",
		Description: fmt.Sprintf("You scored %d%% on the \"%s\" quiz.", s.Score(), s.quiz.Title),
	}, nil
}
