package handler

import (
	"learnflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, vm *middleware.ValidationMiddleware, quiz *QuizHandler, player *PlaybackHandler, health *HealthHandler) {
	api := app.Group("/api")
	api.Get("/health", health.Check)

	quizzes := api.Group("/quizzes/:quiz_id", vm.CatalogIDs("quiz_id"))
	quizzes.Get("", quiz.GetQuizIntro)
	quizzes.Post("/sessions", quiz.StartSession)

	sessions := api.Group("/sessions/:session_id", vm.ULID("session_id"))
	sessions.Get("", quiz.GetSession)
	sessions.Delete("", quiz.Exit)
	sessions.Post("/answer", quiz.SelectAnswer)
	sessions.Post("/next", quiz.Next)
	sessions.Post("/previous", quiz.Previous)
	sessions.Post("/restart", quiz.Restart)
	sessions.Get("/result", quiz.GetResult)
	sessions.Post("/finish", quiz.Finish)

	api.Post("/courses/:course_id/lessons/:lesson_id/playback", vm.CatalogIDs("course_id", "lesson_id"), player.Mount)

	playback := api.Group("/playback/:playback_id", vm.ULID("playback_id"))
	playback.Get("", player.Get)
	playback.Delete("", player.Unmount)
	playback.Post("/toggle-play", player.TogglePlay)
	playback.Post("/reset", player.Reset)
	playback.Post("/mute", player.ToggleMute)
	playback.Post("/fullscreen", player.ToggleFullscreen)
	playback.Post("/seek", player.Seek)
	playback.Post("/volume", player.SetVolume)
	playback.Post("/pointer", player.Pointer)
}
