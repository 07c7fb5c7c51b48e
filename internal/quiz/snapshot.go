package quiz

import (
	"fmt"

	"learnflow/internal/domain"
)

// Snapshot is the serialisable form of a Session, used to park it between requests.
type Snapshot struct {
	QuizID  string       `json:"quiz_id"`
	Status  Status       `json:"status"`
	Index   int          `json:"index"`
	Answers AnswerRecord `json:"answers"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		QuizID:  s.quiz.ID,
		Status:  s.status,
		Index:   s.index,
		Answers: s.Answers(),
	}
}

// Restore rebuilds a session from snap against the quiz it was taken on.
// Snapshots that do not fit the quiz are rejected rather than repaired.
func Restore(quiz *domain.Quiz, snap Snapshot) (*Session, error) {
	s, err := NewSession(quiz)
	if err != nil {
		return nil, err
	}
	if snap.QuizID != quiz.ID {
		return nil, fmt.Errorf("snapshot belongs to quiz %q, not %q", snap.QuizID, quiz.ID)
	}
	switch snap.Status {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
	default:
		return nil, fmt.Errorf("unknown session status %q", snap.Status)
	}
	if snap.Index < 0 || snap.Index >= quiz.QuestionCount() {
		return nil, fmt.Errorf("question index %d out of range [0,%d)", snap.Index, quiz.QuestionCount())
	}

	byID := make(map[string]*domain.Question, quiz.QuestionCount())
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}
	for questionID, optionID := range snap.Answers {
		q, ok := byID[questionID]
		if !ok {
			return nil, fmt.Errorf("answer for unknown question %q", questionID)
		}
		if !q.HasOption(optionID) {
			return nil, fmt.Errorf("answer %q is not an option of question %q", optionID, questionID)
		}
		s.answers[questionID] = optionID
	}

	s.status = snap.Status
	s.index = snap.Index
	return s, nil
}
