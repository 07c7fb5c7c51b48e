package handler_test

import (
	"context"
	"time"

	"learnflow/internal/dto"
)

// --- Manual Mocks ---

type MockQuizSessionService struct {
	GetQuizIntroFunc func(ctx context.Context, quizID string) (*dto.QuizIntroResponse, error)
	StartSessionFunc func(ctx context.Context, quizID string) (*dto.SessionResponse, error)
	GetSessionFunc   func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SelectAnswerFunc func(ctx context.Context, sessionID, optionID string) (*dto.SessionResponse, error)
	NextFunc         func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	PreviousFunc     func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	RestartFunc      func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	GetResultFunc    func(ctx context.Context, sessionID string) (*dto.ResultResponse, error)
	FinishFunc       func(ctx context.Context, sessionID string) (*dto.FinishResponse, error)
	ExitFunc         func(ctx context.Context, sessionID string) error
}

func (m *MockQuizSessionService) GetQuizIntro(ctx context.Context, quizID string) (*dto.QuizIntroResponse, error) {
	if m.GetQuizIntroFunc != nil {
		return m.GetQuizIntroFunc(ctx, quizID)
	}
	panic("MockQuizSessionService.GetQuizIntroFunc not implemented")
}
func (m *MockQuizSessionService) StartSession(ctx context.Context, quizID string) (*dto.SessionResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, quizID)
	}
	panic("MockQuizSessionService.StartSessionFunc not implemented")
}
func (m *MockQuizSessionService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.GetSessionFunc not implemented")
}
func (m *MockQuizSessionService) SelectAnswer(ctx context.Context, sessionID, optionID string) (*dto.SessionResponse, error) {
	if m.SelectAnswerFunc != nil {
		return m.SelectAnswerFunc(ctx, sessionID, optionID)
	}
	panic("MockQuizSessionService.SelectAnswerFunc not implemented")
}
func (m *MockQuizSessionService) Next(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.NextFunc not implemented")
}
func (m *MockQuizSessionService) Previous(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.PreviousFunc != nil {
		return m.PreviousFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.PreviousFunc not implemented")
}
func (m *MockQuizSessionService) Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.RestartFunc not implemented")
}
func (m *MockQuizSessionService) GetResult(ctx context.Context, sessionID string) (*dto.ResultResponse, error) {
	if m.GetResultFunc != nil {
		return m.GetResultFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.GetResultFunc not implemented")
}
func (m *MockQuizSessionService) Finish(ctx context.Context, sessionID string) (*dto.FinishResponse, error) {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.FinishFunc not implemented")
}
func (m *MockQuizSessionService) Exit(ctx context.Context, sessionID string) error {
	if m.ExitFunc != nil {
		return m.ExitFunc(ctx, sessionID)
	}
	panic("MockQuizSessionService.ExitFunc not implemented")
}

type MockPlaybackService struct {
	MountFunc            func(ctx context.Context, courseID, lessonID string) (*dto.PlaybackResponse, error)
	GetFunc              func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	TogglePlayFunc       func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	ResetFunc            func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	ToggleMuteFunc       func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	ToggleFullscreenFunc func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	SeekFunc             func(ctx context.Context, playbackID string, percent float64) (*dto.PlaybackResponse, error)
	SetVolumeFunc        func(ctx context.Context, playbackID string, level float64) (*dto.PlaybackResponse, error)
	PointerFunc          func(ctx context.Context, playbackID, event string) (*dto.PlaybackResponse, error)
	UnmountFunc          func(ctx context.Context, playbackID string) error
}

func (m *MockPlaybackService) Mount(ctx context.Context, courseID, lessonID string) (*dto.PlaybackResponse, error) {
	if m.MountFunc != nil {
		return m.MountFunc(ctx, courseID, lessonID)
	}
	panic("MockPlaybackService.MountFunc not implemented")
}
func (m *MockPlaybackService) Get(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.GetFunc not implemented")
}
func (m *MockPlaybackService) TogglePlay(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	if m.TogglePlayFunc != nil {
		return m.TogglePlayFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.TogglePlayFunc not implemented")
}
func (m *MockPlaybackService) Reset(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.ResetFunc not implemented")
}
func (m *MockPlaybackService) ToggleMute(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	if m.ToggleMuteFunc != nil {
		return m.ToggleMuteFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.ToggleMuteFunc not implemented")
}
func (m *MockPlaybackService) ToggleFullscreen(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	if m.ToggleFullscreenFunc != nil {
		return m.ToggleFullscreenFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.ToggleFullscreenFunc not implemented")
}
func (m *MockPlaybackService) Seek(ctx context.Context, playbackID string, percent float64) (*dto.PlaybackResponse, error) {
	if m.SeekFunc != nil {
		return m.SeekFunc(ctx, playbackID, percent)
	}
	panic("MockPlaybackService.SeekFunc not implemented")
}
func (m *MockPlaybackService) SetVolume(ctx context.Context, playbackID string, level float64) (*dto.PlaybackResponse, error) {
	if m.SetVolumeFunc != nil {
		return m.SetVolumeFunc(ctx, playbackID, level)
	}
	panic("MockPlaybackService.SetVolumeFunc not implemented")
}
func (m *MockPlaybackService) Pointer(ctx context.Context, playbackID, event string) (*dto.PlaybackResponse, error) {
	if m.PointerFunc != nil {
		return m.PointerFunc(ctx, playbackID, event)
	}
	panic("MockPlaybackService.PointerFunc not implemented")
}
func (m *MockPlaybackService) Unmount(ctx context.Context, playbackID string) error {
	if m.UnmountFunc != nil {
		return m.UnmountFunc(ctx, playbackID)
	}
	panic("MockPlaybackService.UnmountFunc not implemented")
}
func (m *MockPlaybackService) RunSweeper(context.Context) {}
func (m *MockPlaybackService) Shutdown()                  {}

type MockCache struct {
	PingErr error
}

func (m *MockCache) Get(context.Context, string) (string, error) { return "", nil }
func (m *MockCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (m *MockCache) Expire(context.Context, string, time.Duration) error {
	return nil
}
func (m *MockCache) Delete(context.Context, string) error { return nil }
func (m *MockCache) Ping(context.Context) error           { return m.PingErr }
