package dto

import "learnflow/internal/playback"

// PlaybackResponse is the lesson player view.
// @Description Lesson player state
type PlaybackResponse struct {
	PlaybackID       string         `json:"playback_id"`
	CourseID         string         `json:"course_id"`
	LessonID         string         `json:"lesson_id"`
	LessonTitle      string         `json:"lesson_title"`
	VideoURL         string         `json:"video_url"`
	State            playback.State `json:"state"`
	CurrentTimeLabel string         `json:"current_time_label"`
	DurationLabel    string         `json:"duration_label"`
	DisplayedVolume  float64        `json:"displayed_volume"`
}

// SeekRequest positions the player at a percentage of the lesson.
type SeekRequest struct {
	Percent *float64 `json:"percent" validate:"required,gte=0,lte=100"`
}

type VolumeRequest struct {
	Level *float64 `json:"level" validate:"required,gte=0,lte=1"`
}

const (
	PointerMove  = "move"
	PointerLeave = "leave"
)

type PointerRequest struct {
	Event string `json:"event" validate:"required,oneof=move leave"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}
