package quiz

import "learnflow/internal/domain"

// QuestionReview is the per-question breakdown shown on the results screen.
type QuestionReview struct {
	QuestionID     string `json:"question_id"`
	Text           string `json:"text"`
	SelectedOption string `json:"selected_option,omitempty"`
	CorrectOption  string `json:"correct_option"`
	Correct        bool   `json:"correct"`
}

// Result summarises a completed session.
type Result struct {
	QuizID      string           `json:"quiz_id"`
	QuizTitle   string           `json:"quiz_title"`
	Score       int              `json:"score"`
	Passed      bool             `json:"passed"`
	Total       int              `json:"total"`
	Correct     int              `json:"correct"`
	Incorrect   int              `json:"incorrect"`
	Achievement string           `json:"achievement,omitempty"`
	Review      []QuestionReview `json:"review"`
}

// Result returns the results summary. It fails unless the session is completed.
func (s *Session) Result() (*Result, error) {
	if s.status != StatusCompleted {
		return nil, domain.NewInvalidTransitionError("results are available once the quiz is completed")
	}

	res := &Result{
		QuizID:    s.quiz.ID,
		QuizTitle: s.quiz.Title,
		Score:     s.Score(),
		Passed:    s.Passed(),
		Total:     len(s.quiz.Questions),
		Correct:   s.CorrectCount(),
		Incorrect: s.IncorrectCount(),
		Review:    make([]QuestionReview, 0, len(s.quiz.Questions)),
	}
	if res.Passed {
		res.Achievement = s.quiz.Achievement
	}
	for i := range s.quiz.Questions {
		q := &s.quiz.Questions[i]
		selected := s.answers[q.ID]
		res.Review = append(res.Review, QuestionReview{
			QuestionID:     q.ID,
			Text:           q.Text,
			SelectedOption: selected,
			CorrectOption:  q.CorrectOption,
			Correct:        q.IsCorrect(selected),
		})
	}
	return res, nil
}
