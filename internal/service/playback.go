package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/logger"
	"learnflow/internal/playback"
	"learnflow/internal/util"

	"go.uber.org/zap"
)

// PlaybackService hosts mounted lesson players. Views live in process memory
// because each one owns a running media clock and a hide timer.
type PlaybackService interface {
	Mount(ctx context.Context, courseID, lessonID string) (*dto.PlaybackResponse, error)
	Get(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	TogglePlay(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	Reset(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	ToggleMute(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	ToggleFullscreen(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)
	Seek(ctx context.Context, playbackID string, percent float64) (*dto.PlaybackResponse, error)
	SetVolume(ctx context.Context, playbackID string, level float64) (*dto.PlaybackResponse, error)
	Pointer(ctx context.Context, playbackID, event string) (*dto.PlaybackResponse, error)
	Unmount(ctx context.Context, playbackID string) error
	// RunSweeper unmounts views left idle longer than the idle TTL until ctx is done.
	RunSweeper(ctx context.Context)
	// Shutdown unmounts every view.
	Shutdown()
}

type playbackView struct {
	id         string
	courseID   string
	lesson     domain.Lesson
	videoURL   string
	controller *playback.Controller
	stop       context.CancelFunc
	done       chan struct{}
	// lastUsed is the unix-nano time of the last request that reached the view.
	lastUsed atomic.Int64
}

func (v *playbackView) touch(now time.Time) {
	v.lastUsed.Store(now.UnixNano())
}

func (v *playbackView) idleSince() time.Time {
	return time.Unix(0, v.lastUsed.Load())
}

func (v *playbackView) close() {
	v.controller.Close()
	v.stop()
	<-v.done
}

type playbackService struct {
	courses      domain.CourseRepository
	tickInterval time.Duration
	idleTTL      time.Duration
	maxViews     int
	newID        func() string
	now          func() time.Time
	// newMedia is swapped in tests to drive the clock by hand.
	newMedia func(length time.Duration) playbackMedia

	mu    sync.RWMutex
	views map[string]*playbackView
}

// playbackMedia is a media element the service can keep running in the background.
type playbackMedia interface {
	playback.Media
	Run(ctx context.Context, interval time.Duration)
}

// NewPlaybackService hosts at most maxViews players, or any number when maxViews
// is 0. Mounting past the limit unmounts the least recently used one.
func NewPlaybackService(courses domain.CourseRepository, tickInterval, idleTTL time.Duration, maxViews int) PlaybackService {
	return &playbackService{
		courses:      courses,
		tickInterval: tickInterval,
		idleTTL:      idleTTL,
		maxViews:     maxViews,
		newID:        util.NewULID,
		now:          time.Now,
		newMedia: func(length time.Duration) playbackMedia {
			return playback.NewSimulatedMedia(length)
		},
		views: make(map[string]*playbackView),
	}
}

// Mount implements PlaybackService
func (s *playbackService) Mount(ctx context.Context, courseID, lessonID string) (*dto.PlaybackResponse, error) {
	course, lesson, err := s.courses.GetLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	length, err := lesson.Length()
	if err != nil {
		return nil, domain.NewInternalError("lesson has an unreadable duration", err)
	}

	media := s.newMedia(length)
	runCtx, stop := context.WithCancel(context.Background())
	id := s.newID()
	view := &playbackView{
		id:         id,
		courseID:   course.ID,
		lesson:     *lesson,
		videoURL:   course.VideoURL,
		controller: playback.NewController(media, playback.WithLogger(logger.Get().With(zap.String("playback_id", id)))),
		stop:       stop,
		done:       make(chan struct{}),
	}
	view.touch(s.now())
	go func() {
		defer close(view.done)
		media.Run(runCtx, s.tickInterval)
	}()

	s.mu.Lock()
	var evicted *playbackView
	if s.maxViews > 0 && len(s.views) >= s.maxViews {
		evicted = s.leastRecentlyUsed()
		delete(s.views, evicted.id)
	}
	s.views[view.id] = view
	s.mu.Unlock()

	if evicted != nil {
		evicted.close()
		logger.Get().Warn("Lesson player limit reached, unmounted least recently used",
			zap.String("playback_id", evicted.id),
			zap.Int("max_views", s.maxViews))
	}

	logger.Get().Info("Lesson player mounted",
		zap.String("playback_id", view.id),
		zap.String("course_id", courseID),
		zap.String("lesson_id", lessonID))
	return playbackResponse(view), nil
}

// Get implements PlaybackService
func (s *playbackService) Get(_ context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	view, err := s.view(playbackID)
	if err != nil {
		return nil, err
	}
	return playbackResponse(view), nil
}

// TogglePlay implements PlaybackService
func (s *playbackService) TogglePlay(_ context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, (*playback.Controller).TogglePlay)
}

// Reset implements PlaybackService
func (s *playbackService) Reset(_ context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, (*playback.Controller).Reset)
}

// ToggleMute implements PlaybackService
func (s *playbackService) ToggleMute(_ context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, (*playback.Controller).ToggleMute)
}

// ToggleFullscreen implements PlaybackService
func (s *playbackService) ToggleFullscreen(_ context.Context, playbackID string) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, (*playback.Controller).ToggleFullscreen)
}

// Seek implements PlaybackService
func (s *playbackService) Seek(_ context.Context, playbackID string, percent float64) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, func(c *playback.Controller) error {
		return c.SeekToFraction(percent)
	})
}

// SetVolume implements PlaybackService
func (s *playbackService) SetVolume(_ context.Context, playbackID string, level float64) (*dto.PlaybackResponse, error) {
	return s.command(playbackID, func(c *playback.Controller) error {
		return c.SetVolumeLevel(level)
	})
}

// Pointer implements PlaybackService
func (s *playbackService) Pointer(_ context.Context, playbackID, event string) (*dto.PlaybackResponse, error) {
	switch event {
	case dto.PointerMove:
		return s.command(playbackID, (*playback.Controller).PointerMoved)
	case dto.PointerLeave:
		return s.command(playbackID, (*playback.Controller).PointerLeft)
	default:
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("event", event)}
	}
}

// Unmount implements PlaybackService
func (s *playbackService) Unmount(_ context.Context, playbackID string) error {
	s.mu.Lock()
	view, ok := s.views[playbackID]
	delete(s.views, playbackID)
	s.mu.Unlock()
	if !ok {
		return domain.NewPlaybackNotFoundError(playbackID)
	}

	view.close()
	logger.Get().Info("Lesson player unmounted", zap.String("playback_id", playbackID))
	return nil
}

// leastRecentlyUsed must be called with s.mu held and at least one view mounted.
func (s *playbackService) leastRecentlyUsed() *playbackView {
	var oldest *playbackView
	for _, v := range s.views {
		if oldest == nil || v.lastUsed.Load() < oldest.lastUsed.Load() {
			oldest = v
		}
	}
	return oldest
}

// RunSweeper implements PlaybackService
func (s *playbackService) RunSweeper(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	interval := min(max(s.idleTTL/2, time.Second), time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep unmounts idle views and returns how many it removed.
func (s *playbackService) sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var idle []*playbackView
	for id, v := range s.views {
		if v.idleSince().Before(cutoff) {
			idle = append(idle, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.close()
	}
	if len(idle) > 0 {
		logger.Get().Info("Unmounted idle lesson players",
			zap.Int("count", len(idle)),
			zap.Duration("idle_ttl", s.idleTTL))
	}
	return len(idle)
}

// Shutdown implements PlaybackService
func (s *playbackService) Shutdown() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*playbackView)
	s.mu.Unlock()

	for _, view := range views {
		view.close()
	}
	if len(views) > 0 {
		logger.Get().Info("Unmounted lesson players", zap.Int("count", len(views)))
	}
}

func (s *playbackService) view(playbackID string) (*playbackView, error) {
	s.mu.RLock()
	view, ok := s.views[playbackID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewPlaybackNotFoundError(playbackID)
	}
	view.touch(s.now())
	return view, nil
}

func (s *playbackService) command(playbackID string, cmd func(*playback.Controller) error) (*dto.PlaybackResponse, error) {
	view, err := s.view(playbackID)
	if err != nil {
		return nil, err
	}
	if err := cmd(view.controller); err != nil {
		// Lost a race with Unmount.
		if errors.Is(err, playback.ErrClosed) {
			return nil, domain.NewPlaybackNotFoundError(playbackID)
		}
		return nil, domain.NewInternalError("playback command failed", err)
	}
	return playbackResponse(view), nil
}

func playbackResponse(view *playbackView) *dto.PlaybackResponse {
	st := view.controller.State()
	return &dto.PlaybackResponse{
		PlaybackID:       view.id,
		CourseID:         view.courseID,
		LessonID:         view.lesson.ID,
		LessonTitle:      view.lesson.Title,
		VideoURL:         view.videoURL,
		State:            st,
		CurrentTimeLabel: playback.FormatTime(st.CurrentTime),
		DurationLabel:    playback.FormatTime(st.Duration),
		DisplayedVolume:  st.DisplayedVolume(),
	}
}
