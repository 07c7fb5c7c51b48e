package playback

import (
	"context"
	"sync"
	"time"
)

// SimulatedMedia is a virtual media element with a known length. Its clock
// only moves when Tick is called, either directly or from Run. Events are
// delivered from the ticking goroutine, never from command methods.
type SimulatedMedia struct {
	mu         sync.Mutex
	length     float64
	position   float64
	paused     bool
	volume     float64
	muted      bool
	fullscreen bool
	loaded     bool

	subs    map[int]func(Event)
	nextSub int
}

func NewSimulatedMedia(length time.Duration) *SimulatedMedia {
	return &SimulatedMedia{
		length: length.Seconds(),
		paused: true,
		volume: 1,
		subs:   make(map[int]func(Event)),
	}
}

func (m *SimulatedMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *SimulatedMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return 0
	}
	return m.length
}

func (m *SimulatedMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Play starts the clock. Playing a finished clip starts it over.
func (m *SimulatedMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.position >= m.length {
		m.position = 0
	}
	m.paused = false
	return nil
}

func (m *SimulatedMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
}

func (m *SimulatedMedia) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case seconds < 0:
		m.position = 0
	case seconds > m.length:
		m.position = m.length
	default:
		m.position = seconds
	}
}

func (m *SimulatedMedia) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *SimulatedMedia) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *SimulatedMedia) Mute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = true
}

func (m *SimulatedMedia) Unmute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = false
}

func (m *SimulatedMedia) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *SimulatedMedia) IsFullscreen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fullscreen
}

func (m *SimulatedMedia) RequestFullscreen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fullscreen = true
	return nil
}

func (m *SimulatedMedia) ExitFullscreen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fullscreen = false
	return nil
}

func (m *SimulatedMedia) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
		})
	}
}

// Subscribers reports how many listeners are registered.
func (m *SimulatedMedia) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Tick advances the clock by elapsed and delivers the resulting events.
// The first tick loads metadata.
func (m *SimulatedMedia) Tick(elapsed time.Duration) {
	m.mu.Lock()
	var events []Event
	if !m.loaded {
		m.loaded = true
		events = append(events, Event{Type: EventMetadataLoaded})
	}
	if !m.paused {
		m.position += elapsed.Seconds()
		events = append(events, Event{Type: EventTimeUpdated})
		if m.position >= m.length {
			m.position = m.length
			m.paused = true
			events = append(events, Event{Type: EventEnded})
		}
	}
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// Run ticks every interval until ctx is done.
func (m *SimulatedMedia) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Tick(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(interval)
		}
	}
}
