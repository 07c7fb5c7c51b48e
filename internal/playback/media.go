// Package playback mirrors a media element's live state for the lesson
// player controls and forwards the learner's commands back to it.
package playback

// EventType identifies a media notification.
type EventType int

const (
	EventMetadataLoaded EventType = iota
	EventTimeUpdated
	EventEnded
)

func (t EventType) String() string {
	switch t {
	case EventMetadataLoaded:
		return "metadata_loaded"
	case EventTimeUpdated:
		return "time_updated"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a Media.
type Event struct {
	Type EventType
}

// Media is the playback primitive a Controller wraps. Times are in seconds.
//
// Implementations must not deliver events synchronously from inside a
// command method; the Controller holds its lock while issuing commands.
type Media interface {
	CurrentTime() float64
	// Duration is 0 until metadata has loaded.
	Duration() float64
	Paused() bool

	// Play may be refused by the primitive, e.g. by an autoplay policy.
	Play() error
	Pause()
	Seek(seconds float64)
	SetVolume(level float64)
	Mute()
	Unmute()

	// Subscribe registers fn for all events and returns the function that removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Fullscreener is implemented by media whose container can go fullscreen.
type Fullscreener interface {
	IsFullscreen() bool
	RequestFullscreen() error
	ExitFullscreen() error
}
