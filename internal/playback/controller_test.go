package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeMedia records commands and lets tests emit events by hand.
type fakeMedia struct {
	currentTime float64
	duration    float64
	paused      bool
	volume      float64
	muted       bool
	playErr     error

	seeks        []float64
	plays        int
	pauses       int
	listener     func(Event)
	unsubscribed bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, volume: 1}
}

func (m *fakeMedia) CurrentTime() float64 { return m.currentTime }
func (m *fakeMedia) Duration() float64    { return m.duration }
func (m *fakeMedia) Paused() bool         { return m.paused }

func (m *fakeMedia) Play() error {
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *fakeMedia) Pause() {
	m.pauses++
	m.paused = true
}

func (m *fakeMedia) Seek(seconds float64) {
	m.seeks = append(m.seeks, seconds)
	m.currentTime = seconds
}

func (m *fakeMedia) SetVolume(level float64) { m.volume = level }
func (m *fakeMedia) Mute()                   { m.muted = true }
func (m *fakeMedia) Unmute()                 { m.muted = false }

func (m *fakeMedia) Subscribe(fn func(Event)) func() {
	m.listener = fn
	return func() { m.unsubscribed = true }
}

func (m *fakeMedia) emit(t EventType) {
	if m.listener != nil && !m.unsubscribed {
		m.listener(Event{Type: t})
	}
}

// fullscreenMedia adds fullscreen support to fakeMedia.
type fullscreenMedia struct {
	*fakeMedia
	fullscreen bool
	requestErr error
}

func (m *fullscreenMedia) IsFullscreen() bool { return m.fullscreen }
func (m *fullscreenMedia) RequestFullscreen() error {
	if m.requestErr != nil {
		return m.requestErr
	}
	m.fullscreen = true
	return nil
}
func (m *fullscreenMedia) ExitFullscreen() error {
	m.fullscreen = false
	return nil
}

// manualClock captures scheduled callbacks so tests decide when they fire.
type manualClock struct {
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{delay: d, fn: f}
	c.pending = append(c.pending, t)
	return t
}

// fireLatest runs the most recently scheduled callback even if it was stopped.
func (c *manualClock) fireLatest() {
	c.pending[len(c.pending)-1].fn()
}

func TestController_InitialState(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	s := c.State()
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 1.0, s.Volume)
	assert.False(t, s.IsMuted)
	assert.True(t, s.ControlsVisible)
	assert.Zero(t, s.Duration)
	assert.Zero(t, s.Progress)
	assert.NotNil(t, media.listener)
}

func TestController_TimeUpdatedDerivesProgress(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	media.currentTime = 30
	media.duration = 120
	media.emit(EventTimeUpdated)

	s := c.State()
	assert.Equal(t, 30.0, s.CurrentTime)
	assert.Equal(t, 120.0, s.Duration)
	assert.Equal(t, 0.25, s.Progress)
}

func TestController_TimeUpdatedGuardsZeroDuration(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	media.currentTime = 5
	media.emit(EventTimeUpdated)

	s := c.State()
	assert.Equal(t, 5.0, s.CurrentTime)
	assert.Zero(t, s.Progress)
}

func TestController_MetadataLoadedSetsDuration(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	media.duration = 615
	media.emit(EventMetadataLoaded)
	assert.Equal(t, 615.0, c.State().Duration)
}

func TestController_EndedKeepsPosition(t *testing.T) {
	media := newFakeMedia()
	media.duration = 60
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	media.currentTime = 60
	media.emit(EventTimeUpdated)
	media.paused = true
	media.emit(EventEnded)

	s := c.State()
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 60.0, s.CurrentTime)
	assert.Equal(t, 1.0, s.Progress)
	assert.Empty(t, media.seeks, "ended must not rewind")
}

func TestController_TogglePlay(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	assert.True(t, c.State().IsPlaying)
	assert.Equal(t, 1, media.plays)

	require.NoError(t, c.TogglePlay())
	assert.False(t, c.State().IsPlaying)
	assert.Equal(t, 1, media.pauses)
}

func TestController_TogglePlayRefused(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	media := newFakeMedia()
	media.playErr = errors.New("autoplay blocked")
	c := NewController(media, WithLogger(zap.New(core)))
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	assert.Equal(t, 1, media.plays)
	assert.False(t, c.State().IsPlaying, "paused media wins over the optimistic flag")
	require.Equal(t, 1, logs.FilterMessage("Media refused to play").Len())

	// Once allowed, the next toggle plays.
	media.playErr = nil
	require.NoError(t, c.TogglePlay())
	assert.True(t, c.State().IsPlaying)
}

func TestController_TogglePlayReconcilesOnTimeUpdate(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	assert.True(t, c.State().IsPlaying)

	// The element stopped on its own, e.g. while buffering.
	media.paused = true
	media.emit(EventTimeUpdated)
	assert.False(t, c.State().IsPlaying)
}

func TestController_ResetRefusedPlay(t *testing.T) {
	media := newFakeMedia()
	media.duration = 100
	media.playErr = errors.New("autoplay blocked")
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.Reset())
	s := c.State()
	assert.Zero(t, s.CurrentTime)
	assert.False(t, s.IsPlaying)
}

func TestController_SetVolumeLevel(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.SetVolumeLevel(0.4))
	assert.Equal(t, 0.4, media.volume)
	assert.False(t, c.State().IsMuted)

	require.NoError(t, c.SetVolumeLevel(0))
	assert.True(t, c.State().IsMuted)
	assert.Zero(t, c.State().DisplayedVolume())
}

func TestController_ToggleMuteRestoresVolume(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.SetVolumeLevel(0.6))
	require.NoError(t, c.ToggleMute())
	s := c.State()
	assert.True(t, s.IsMuted)
	assert.True(t, media.muted)
	assert.Zero(t, s.DisplayedVolume())

	require.NoError(t, c.Unmute())
	s = c.State()
	assert.False(t, s.IsMuted)
	assert.False(t, media.muted)
	assert.Equal(t, 0.6, s.Volume)
	assert.Equal(t, 0.6, media.volume)

	require.NoError(t, c.ToggleMute())
	require.NoError(t, c.ToggleMute())
	assert.Equal(t, 0.6, c.State().DisplayedVolume())
}

func TestController_SetVolumeWhileMutedUnmutes(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.Mute())
	require.NoError(t, c.SetVolumeLevel(0.3))
	assert.False(t, c.State().IsMuted)
	assert.False(t, media.muted)
	assert.Equal(t, 0.3, media.volume)
}

func TestController_SeekToFraction(t *testing.T) {
	media := newFakeMedia()
	media.duration = 200
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.SeekToFraction(25))
	assert.Equal(t, []float64{50}, media.seeks)

	s := c.State()
	assert.Equal(t, 50.0, s.CurrentTime)
	assert.Equal(t, 0.25, s.Progress)
}

func TestController_SeekBeforeMetadata(t *testing.T) {
	media := newFakeMedia()
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.SeekToFraction(40))
	s := c.State()
	assert.Zero(t, s.CurrentTime)
	assert.Zero(t, s.Progress)
}

func TestController_Reset(t *testing.T) {
	media := newFakeMedia()
	media.duration = 100
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.SeekToFraction(50))
	require.NoError(t, c.Reset())

	s := c.State()
	assert.Zero(t, s.CurrentTime)
	assert.Zero(t, s.Progress)
	assert.True(t, s.IsPlaying)
	assert.Equal(t, 1, media.plays)

	// Already playing: rewind only.
	require.NoError(t, c.Reset())
	assert.Equal(t, 1, media.plays)
}

func TestController_ToggleFullscreen(t *testing.T) {
	media := &fullscreenMedia{fakeMedia: newFakeMedia()}
	c := NewController(media)
	defer c.Close()

	require.NoError(t, c.ToggleFullscreen())
	assert.True(t, c.State().IsFullscreen)
	require.NoError(t, c.ToggleFullscreen())
	assert.False(t, c.State().IsFullscreen)

	media.requestErr = errors.New("denied")
	assert.EqualError(t, c.ToggleFullscreen(), "denied")
	assert.False(t, c.State().IsFullscreen)
}

func TestController_ToggleFullscreenUnsupported(t *testing.T) {
	c := NewController(newFakeMedia())
	defer c.Close()

	assert.ErrorIs(t, c.ToggleFullscreen(), ErrFullscreenUnsupported)
}

func TestController_ControlsHideWhilePlaying(t *testing.T) {
	clock := &manualClock{}
	media := newFakeMedia()
	c := NewController(media, WithAfterFunc(clock.AfterFunc))
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	require.NoError(t, c.PointerMoved())
	require.Len(t, clock.pending, 1)
	assert.Equal(t, ControlsHideDelay, clock.pending[0].delay)
	assert.True(t, c.State().ControlsVisible)

	clock.fireLatest()
	assert.False(t, c.State().ControlsVisible)

	require.NoError(t, c.PointerMoved())
	assert.True(t, c.State().ControlsVisible)
}

func TestController_ControlsStayWhilePaused(t *testing.T) {
	clock := &manualClock{}
	c := NewController(newFakeMedia(), WithAfterFunc(clock.AfterFunc))
	defer c.Close()

	require.NoError(t, c.PointerMoved())
	clock.fireLatest()
	assert.True(t, c.State().ControlsVisible)

	require.NoError(t, c.PointerLeft())
	assert.True(t, c.State().ControlsVisible)
}

func TestController_PointerMoveReschedules(t *testing.T) {
	clock := &manualClock{}
	c := NewController(newFakeMedia(), WithAfterFunc(clock.AfterFunc), WithHideDelay(time.Second))
	defer c.Close()
	require.NoError(t, c.TogglePlay())

	require.NoError(t, c.PointerMoved())
	require.NoError(t, c.PointerMoved())
	require.Len(t, clock.pending, 2)
	assert.True(t, clock.pending[0].stopped, "earlier countdown is cancelled")
	assert.Equal(t, time.Second, clock.pending[1].delay)

	// A stale callback that slipped past Stop is ignored.
	clock.pending[0].fn()
	assert.True(t, c.State().ControlsVisible)

	clock.fireLatest()
	assert.False(t, c.State().ControlsVisible)
}

func TestController_PointerLeftHidesWhilePlaying(t *testing.T) {
	c := NewController(newFakeMedia())
	defer c.Close()

	require.NoError(t, c.TogglePlay())
	require.NoError(t, c.PointerLeft())
	assert.False(t, c.State().ControlsVisible)
}

func TestController_Close(t *testing.T) {
	clock := &manualClock{}
	media := newFakeMedia()
	c := NewController(media, WithAfterFunc(clock.AfterFunc))

	require.NoError(t, c.PointerMoved())
	c.Close()
	c.Close()

	assert.True(t, media.unsubscribed)
	assert.True(t, clock.pending[0].stopped)
	assert.ErrorIs(t, c.TogglePlay(), ErrClosed)
	assert.ErrorIs(t, c.SeekToFraction(10), ErrClosed)
	assert.ErrorIs(t, c.PointerMoved(), ErrClosed)

	before := c.State()
	media.currentTime = 10
	media.listener(Event{Type: EventTimeUpdated})
	assert.Equal(t, before, c.State(), "events after close are ignored")
}
