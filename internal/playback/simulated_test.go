package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedMedia_TickLifecycle(t *testing.T) {
	m := NewSimulatedMedia(10 * time.Second)
	var events []EventType
	unsubscribe := m.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	defer unsubscribe()

	assert.Zero(t, m.Duration(), "duration unknown before metadata")

	m.Tick(time.Second)
	assert.Equal(t, []EventType{EventMetadataLoaded}, events, "paused media only loads metadata")
	assert.Equal(t, 10.0, m.Duration())
	assert.Zero(t, m.CurrentTime())

	require.NoError(t, m.Play())
	m.Tick(4 * time.Second)
	assert.Equal(t, 4.0, m.CurrentTime())

	m.Tick(8 * time.Second)
	assert.Equal(t, 10.0, m.CurrentTime())
	assert.True(t, m.Paused())
	assert.Equal(t, []EventType{EventMetadataLoaded, EventTimeUpdated, EventTimeUpdated, EventEnded}, events)

	require.NoError(t, m.Play())
	assert.Zero(t, m.CurrentTime(), "playing a finished clip starts over")
}

func TestSimulatedMedia_SeekClamps(t *testing.T) {
	m := NewSimulatedMedia(time.Minute)
	m.Seek(-5)
	assert.Zero(t, m.CurrentTime())
	m.Seek(90)
	assert.Equal(t, 60.0, m.CurrentTime())
	m.Seek(12.5)
	assert.Equal(t, 12.5, m.CurrentTime())
}

func TestSimulatedMedia_Unsubscribe(t *testing.T) {
	m := NewSimulatedMedia(time.Minute)
	calls := 0
	unsubscribe := m.Subscribe(func(Event) { calls++ })
	assert.Equal(t, 1, m.Subscribers())

	unsubscribe()
	unsubscribe()
	assert.Zero(t, m.Subscribers())

	m.Tick(time.Second)
	assert.Zero(t, calls)
}

func TestSimulatedMedia_DrivesController(t *testing.T) {
	m := NewSimulatedMedia(120 * time.Second)
	c := NewController(m)
	defer c.Close()

	m.Tick(0)
	require.NoError(t, c.TogglePlay())
	m.Tick(30 * time.Second)

	s := c.State()
	assert.Equal(t, 120.0, s.Duration)
	assert.Equal(t, 30.0, s.CurrentTime)
	assert.Equal(t, 0.25, s.Progress)
	assert.True(t, s.IsPlaying)

	require.NoError(t, c.ToggleMute())
	assert.True(t, m.Muted())
	require.NoError(t, c.ToggleFullscreen())
	assert.True(t, m.IsFullscreen())

	m.Tick(90 * time.Second)
	s = c.State()
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 1.0, s.Progress)
}

func TestSimulatedMedia_RunStopsWithContext(t *testing.T) {
	m := NewSimulatedMedia(time.Hour)
	require.NoError(t, m.Play())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.CurrentTime() > 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
