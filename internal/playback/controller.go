package playback

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ControlsHideDelay is how long controls stay up after the last pointer movement while playing.
const ControlsHideDelay = 3 * time.Second

var (
	ErrClosed                = errors.New("playback: controller is closed")
	ErrFullscreenUnsupported = errors.New("playback: media does not support fullscreen")
)

// State is the controller-visible view of the player.
type State struct {
	CurrentTime     float64 `json:"current_time"`
	Duration        float64 `json:"duration"`
	Progress        float64 `json:"progress"` // currentTime / duration, 0 while duration is unknown
	IsPlaying       bool    `json:"is_playing"`
	Volume          float64 `json:"volume"`
	IsMuted         bool    `json:"is_muted"`
	ControlsVisible bool    `json:"controls_visible"`
	IsFullscreen    bool    `json:"is_fullscreen"`
}

// DisplayedVolume is what the volume slider shows: 0 while muted.
func (s State) DisplayedVolume() float64 {
	if s.IsMuted {
		return 0
	}
	return s.Volume
}

type Option func(*Controller)

// WithAfterFunc replaces the timer used for hiding controls.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = f }
}

// WithLogger sets the logger used for media failures that are not returned to callers.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithHideDelay overrides ControlsHideDelay.
func WithHideDelay(d time.Duration) Option {
	return func(c *Controller) { c.hideDelay = d }
}

// Controller owns the playback state of one player view. Create it on mount
// and Close it on unmount. It is safe for concurrent use; media events and
// the hide timer arrive on their own goroutines.
type Controller struct {
	mu     sync.Mutex
	media  Media
	state  State
	logger *zap.Logger

	afterFunc AfterFunc
	hideDelay time.Duration
	hideTimer Timer
	hideGen   uint64

	unsubscribe func()
	closed      bool
}

func NewController(media Media, opts ...Option) *Controller {
	c := &Controller{
		media:     media,
		afterFunc: realAfterFunc,
		hideDelay: ControlsHideDelay,
		logger:    zap.NewNop(),
		state: State{
			Volume:          1,
			ControlsVisible: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Duration = media.Duration()
	c.state.CurrentTime = media.CurrentTime()
	c.state.Progress = fraction(c.state.CurrentTime, c.state.Duration)
	c.unsubscribe = media.Subscribe(c.handleEvent)
	return c
}

func fraction(current, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return current / duration
}

func (c *Controller) handleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch ev.Type {
	case EventMetadataLoaded:
		c.state.Duration = c.media.Duration()
		c.state.Progress = fraction(c.state.CurrentTime, c.state.Duration)
	case EventTimeUpdated:
		c.state.CurrentTime = c.media.CurrentTime()
		if d := c.media.Duration(); d > 0 {
			c.state.Duration = d
		}
		c.state.Progress = fraction(c.state.CurrentTime, c.state.Duration)
		// Reconciles an optimistic TogglePlay the primitive did not honour.
		c.state.IsPlaying = !c.media.Paused()
	case EventEnded:
		// Position is kept so the learner sees the finished state.
		c.state.IsPlaying = false
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TogglePlay plays or pauses based on the last-known flag and flips it
// without waiting for the media to confirm. A refused play is not an error:
// the flag is set back from the media, since a paused element sends no time
// updates to correct it later.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	if c.state.IsPlaying {
		c.media.Pause()
		c.state.IsPlaying = false
		return nil
	}
	c.play()
	return nil
}

// play must be called with c.mu held.
func (c *Controller) play() {
	c.state.IsPlaying = true
	if err := c.media.Play(); err != nil {
		c.logger.Warn("Media refused to play", zap.Error(err))
		c.state.IsPlaying = !c.media.Paused()
	}
}

// SetVolumeLevel forwards level, expected in [0,1], to the media. A zero level counts as muted.
func (c *Controller) SetVolumeLevel(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.state.Volume = level
	c.media.SetVolume(level)
	if level > 0 && c.state.IsMuted {
		c.media.Unmute()
	}
	c.state.IsMuted = level == 0
	return nil
}

// Mute silences the media. The volume level is kept for Unmute.
func (c *Controller) Mute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.mute()
	return nil
}

// Unmute restores the volume the media had before it was muted.
func (c *Controller) Unmute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.unmute()
	return nil
}

func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state.IsMuted {
		c.unmute()
	} else {
		c.mute()
	}
	return nil
}

func (c *Controller) mute() {
	if c.state.IsMuted {
		return
	}
	c.media.Mute()
	c.state.IsMuted = true
}

func (c *Controller) unmute() {
	if !c.state.IsMuted {
		return
	}
	c.media.Unmute()
	c.media.SetVolume(c.state.Volume)
	c.state.IsMuted = false
}

// SeekToFraction seeks to percent (0-100) of the duration and shows the new
// position before the media confirms it.
func (c *Controller) SeekToFraction(percent float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	target := percent / 100 * c.state.Duration
	c.media.Seek(target)
	c.state.CurrentTime = target
	c.state.Progress = fraction(target, c.state.Duration)
	return nil
}

// Reset rewinds to the start and resumes playback if it was paused.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.media.Seek(0)
	c.state.CurrentTime = 0
	c.state.Progress = 0
	if !c.state.IsPlaying {
		c.play()
	}
	return nil
}

// ToggleFullscreen enters or leaves fullscreen on media that supports it.
func (c *Controller) ToggleFullscreen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	fs, ok := c.media.(Fullscreener)
	if !ok {
		return ErrFullscreenUnsupported
	}
	var err error
	if fs.IsFullscreen() {
		err = fs.ExitFullscreen()
	} else {
		err = fs.RequestFullscreen()
	}
	if err != nil {
		return err
	}
	c.state.IsFullscreen = fs.IsFullscreen()
	return nil
}

// PointerMoved shows the controls and restarts the hide countdown.
func (c *Controller) PointerMoved() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.state.ControlsVisible = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	c.hideGen++
	gen := c.hideGen
	c.hideTimer = c.afterFunc(c.hideDelay, func() { c.hideControls(gen) })
	return nil
}

// PointerLeft hides the controls immediately while playing.
func (c *Controller) PointerLeft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state.IsPlaying {
		c.state.ControlsVisible = false
	}
	return nil
}

func (c *Controller) hideControls(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A firing that raced with a newer PointerMoved is stale.
	if c.closed || gen != c.hideGen {
		return
	}
	c.hideTimer = nil
	if c.state.IsPlaying {
		c.state.ControlsVisible = false
	}
}

// Close unsubscribes from the media and cancels the hide timer. It is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}
