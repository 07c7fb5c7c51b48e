package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"learnflow/internal/cache"
	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/logger"
	"learnflow/internal/quiz"
	"learnflow/internal/util"

	"go.uber.org/zap"
)

// FinishRedirect is where the learner is sent after finishing a quiz.
const FinishRedirect = "/quizzes"

// QuizSessionService drives quiz sessions between requests.
type QuizSessionService interface {
	GetQuizIntro(ctx context.Context, quizID string) (*dto.QuizIntroResponse, error)
	StartSession(ctx context.Context, quizID string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SelectAnswer(ctx context.Context, sessionID, optionID string) (*dto.SessionResponse, error)
	Next(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Previous(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	GetResult(ctx context.Context, sessionID string) (*dto.ResultResponse, error)
	Finish(ctx context.Context, sessionID string) (*dto.FinishResponse, error)
	Exit(ctx context.Context, sessionID string) error
}

type quizSessionService struct {
	quizzes  domain.QuizRepository
	store    domain.Cache
	notifier domain.Notifier
	ttl      time.Duration
	newID    func() string

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewQuizSessionService(quizzes domain.QuizRepository, store domain.Cache, notifier domain.Notifier, ttl time.Duration) QuizSessionService {
	return &quizSessionService{
		quizzes:  quizzes,
		store:    store,
		notifier: notifier,
		ttl:      ttl,
		newID:    util.NewULID,
		locks:    make(map[string]*sessionLock),
	}
}

// lock serialises load-mutate-save for one session id and returns the unlock func.
func (s *quizSessionService) lock(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}

// GetQuizIntro implements QuizSessionService
func (s *quizSessionService) GetQuizIntro(ctx context.Context, quizID string) (*dto.QuizIntroResponse, error) {
	q, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return &dto.QuizIntroResponse{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Instructions:  q.Instructions,
		Category:      q.Category,
		TimeLimit:     q.TimeLimit,
		Achievement:   q.Achievement,
		QuestionCount: q.QuestionCount(),
	}, nil
}

// StartSession implements QuizSessionService
func (s *quizSessionService) StartSession(ctx context.Context, quizID string) (*dto.SessionResponse, error) {
	q, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	sess, err := quiz.NewSession(q)
	if err != nil {
		return nil, err
	}
	if !sess.Start() {
		return nil, domain.NewInternalError("new quiz session did not start", nil)
	}

	sessionID := s.newID()
	if err := s.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz session started",
		zap.String("session_id", sessionID),
		zap.String("quiz_id", quizID))
	return sessionView(sessionID, sess, nil), nil
}

// GetSession implements QuizSessionService
func (s *quizSessionService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, sessionID)
	return sessionView(sessionID, sess, nil), nil
}

// SelectAnswer implements QuizSessionService
func (s *quizSessionService) SelectAnswer(ctx context.Context, sessionID, optionID string) (*dto.SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(sess *quiz.Session) (bool, error) {
		return sess.SelectAnswer(optionID)
	})
}

// Next implements QuizSessionService
func (s *quizSessionService) Next(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(sess *quiz.Session) (bool, error) {
		return sess.Advance(), nil
	})
}

// Previous implements QuizSessionService
func (s *quizSessionService) Previous(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(sess *quiz.Session) (bool, error) {
		return sess.Retreat(), nil
	})
}

// Restart implements QuizSessionService. Only a completed session can be restarted.
func (s *quizSessionService) Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	return s.mutate(ctx, sessionID, func(sess *quiz.Session) (bool, error) {
		return sess.Start(), nil
	})
}

// GetResult implements QuizSessionService
func (s *quizSessionService) GetResult(ctx context.Context, sessionID string) (*dto.ResultResponse, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	res, err := sess.Result()
	if err != nil {
		return nil, err
	}
	s.touch(ctx, sessionID)
	return &dto.ResultResponse{SessionID: sessionID, Result: *res}, nil
}

// Finish implements QuizSessionService. The toast is published once and the session is destroyed.
func (s *quizSessionService) Finish(ctx context.Context, sessionID string) (*dto.FinishResponse, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	toast, err := sess.CompletionToast()
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, cache.SessionKey(sessionID)); err != nil {
		return nil, domain.NewInternalError("failed to delete quiz session", err)
	}
	if err := s.notifier.Notify(ctx, toast); err != nil {
		// The session is already gone; a lost toast is not worth failing the request.
		logger.Get().Warn("Failed to deliver completion toast",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	logger.Get().Info("Quiz session finished",
		zap.String("session_id", sessionID),
		zap.Int("score", sess.Score()),
		zap.Bool("passed", sess.Passed()))
	return &dto.FinishResponse{Message: toast.Description, Redirect: FinishRedirect}, nil
}

// Exit implements QuizSessionService
func (s *quizSessionService) Exit(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.load(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, cache.SessionKey(sessionID)); err != nil {
		return domain.NewInternalError("failed to delete quiz session", err)
	}
	logger.Get().Info("Quiz session exited", zap.String("session_id", sessionID))
	return nil
}

func (s *quizSessionService) mutate(ctx context.Context, sessionID string, apply func(*quiz.Session) (bool, error)) (*dto.SessionResponse, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	applied, err := apply(sess)
	if err != nil {
		return nil, err
	}
	if applied {
		if err := s.save(ctx, sessionID, sess); err != nil {
			return nil, err
		}
	} else {
		s.touch(ctx, sessionID)
	}
	return sessionView(sessionID, sess, &applied), nil
}

func (s *quizSessionService) load(ctx context.Context, sessionID string) (*quiz.Session, error) {
	raw, err := s.store.Get(ctx, cache.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return nil, domain.NewInternalError("failed to load quiz session", err)
	}

	var snap quiz.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, domain.NewInternalError("failed to decode quiz session", err)
	}
	q, err := s.quizzes.GetQuizByID(ctx, snap.QuizID)
	if err != nil {
		return nil, err
	}
	sess, err := quiz.Restore(q, snap)
	if err != nil {
		return nil, domain.NewInternalError("stored quiz session no longer fits its quiz", err)
	}
	return sess, nil
}

func (s *quizSessionService) save(ctx context.Context, sessionID string, sess *quiz.Session) error {
	data, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return domain.NewInternalError("failed to encode quiz session", err)
	}
	if err := s.store.Set(ctx, cache.SessionKey(sessionID), string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to store quiz session", zap.String("session_id", sessionID), zap.Error(err))
		return domain.NewInternalError("failed to store quiz session", err)
	}
	return nil
}

// touch slides the session TTL for requests that read but do not save it.
// A failure only shortens the session's life, so it is logged and ignored.
func (s *quizSessionService) touch(ctx context.Context, sessionID string) {
	if err := s.store.Expire(ctx, cache.SessionKey(sessionID), s.ttl); err != nil {
		logger.Get().Warn("Failed to refresh quiz session ttl", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func sessionView(sessionID string, sess *quiz.Session, applied *bool) *dto.SessionResponse {
	q := sess.Quiz()
	resp := &dto.SessionResponse{
		SessionID:       sessionID,
		QuizID:          q.ID,
		QuizTitle:       q.Title,
		Status:          string(sess.Status()),
		Index:           sess.Index(),
		QuestionNumber:  sess.Index() + 1,
		TotalQuestions:  q.QuestionCount(),
		ProgressPercent: sess.PercentComplete(),
		CanAdvance:      sess.CanAdvance(),
		CanRetreat:      sess.CanRetreat(),
		IsFirst:         sess.IsFirst(),
		IsLast:          sess.IsLast(),
		Applied:         applied,
	}
	if sess.Status() == quiz.StatusInProgress {
		cur := sess.CurrentQuestion()
		question := &dto.QuestionResponse{ID: cur.ID, Text: cur.Text, Options: make([]dto.OptionResponse, 0, len(cur.Options))}
		for _, o := range cur.Options {
			question.Options = append(question.Options, dto.OptionResponse{ID: o.ID, Text: o.Text})
		}
		resp.Question = question
		resp.SelectedOption, _ = sess.SelectedOption(cur.ID)
	}
	return resp
}
