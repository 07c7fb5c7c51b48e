package handler

import (
	"context"

	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/service"
	"learnflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PlaybackHandler exposes the lesson player controls
type PlaybackHandler struct {
	service   service.PlaybackService
	validator *validation.Validator
}

func NewPlaybackHandler(service service.PlaybackService, validator *validation.Validator) *PlaybackHandler {
	return &PlaybackHandler{
		service:   service,
		validator: validator,
	}
}

// Mount godoc
// @Summary Open a lesson player
// @Tags playback
// @Produce json
// @Param course_id path string true "Course ID"
// @Param lesson_id path string true "Lesson ID"
// @Success 201 {object} dto.PlaybackResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /courses/{course_id}/lessons/{lesson_id}/playback [post]
func (h *PlaybackHandler) Mount(c *fiber.Ctx) error {
	view, err := h.service.Mount(c.UserContext(), c.Params("course_id"), c.Params("lesson_id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// Get godoc
// @Summary Get lesson player state
// @Tags playback
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Success 200 {object} dto.PlaybackResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /playback/{playback_id} [get]
func (h *PlaybackHandler) Get(c *fiber.Ctx) error {
	return h.respond(c, h.service.Get)
}

// TogglePlay godoc
// @Summary Play or pause
// @Tags playback
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Success 200 {object} dto.PlaybackResponse
// @Router /playback/{playback_id}/toggle-play [post]
func (h *PlaybackHandler) TogglePlay(c *fiber.Ctx) error {
	return h.respond(c, h.service.TogglePlay)
}

// Reset godoc
// @Summary Restart the lesson from the beginning
// @Tags playback
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Success 200 {object} dto.PlaybackResponse
// @Router /playback/{playback_id}/reset [post]
func (h *PlaybackHandler) Reset(c *fiber.Ctx) error {
	return h.respond(c, h.service.Reset)
}

// ToggleMute godoc
// @Summary Mute or unmute
// @Tags playback
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Success 200 {object} dto.PlaybackResponse
// @Router /playback/{playback_id}/mute [post]
func (h *PlaybackHandler) ToggleMute(c *fiber.Ctx) error {
	return h.respond(c, h.service.ToggleMute)
}

// ToggleFullscreen godoc
// @Summary Enter or leave fullscreen
// @Tags playback
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Success 200 {object} dto.PlaybackResponse
// @Router /playback/{playback_id}/fullscreen [post]
func (h *PlaybackHandler) ToggleFullscreen(c *fiber.Ctx) error {
	return h.respond(c, h.service.ToggleFullscreen)
}

// Seek godoc
// @Summary Seek to a percentage of the lesson
// @Tags playback
// @Accept json
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Param request body dto.SeekRequest true "Position in percent"
// @Success 200 {object} dto.PlaybackResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /playback/{playback_id}/seek [post]
func (h *PlaybackHandler) Seek(c *fiber.Ctx) error {
	var req dto.SeekRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}
	view, err := h.service.Seek(c.UserContext(), c.Params("playback_id"), *req.Percent)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// SetVolume godoc
// @Summary Set the volume
// @Tags playback
// @Accept json
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Param request body dto.VolumeRequest true "Volume between 0 and 1"
// @Success 200 {object} dto.PlaybackResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /playback/{playback_id}/volume [post]
func (h *PlaybackHandler) SetVolume(c *fiber.Ctx) error {
	var req dto.VolumeRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}
	view, err := h.service.SetVolume(c.UserContext(), c.Params("playback_id"), *req.Level)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Pointer godoc
// @Summary Report pointer movement over the player
// @Tags playback
// @Accept json
// @Produce json
// @Param playback_id path string true "Playback ID"
// @Param request body dto.PointerRequest true "move or leave"
// @Success 200 {object} dto.PlaybackResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /playback/{playback_id}/pointer [post]
func (h *PlaybackHandler) Pointer(c *fiber.Ctx) error {
	var req dto.PointerRequest
	if err := h.parse(c, &req); err != nil {
		return err
	}
	view, err := h.service.Pointer(c.UserContext(), c.Params("playback_id"), req.Event)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Unmount godoc
// @Summary Close a lesson player
// @Tags playback
// @Param playback_id path string true "Playback ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /playback/{playback_id} [delete]
func (h *PlaybackHandler) Unmount(c *fiber.Ctx) error {
	if err := h.service.Unmount(c.UserContext(), c.Params("playback_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PlaybackHandler) parse(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return domain.NewInvalidInputError("request body must be JSON")
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	return nil
}

type playbackCommand func(ctx context.Context, playbackID string) (*dto.PlaybackResponse, error)

func (h *PlaybackHandler) respond(c *fiber.Ctx, cmd playbackCommand) error {
	view, err := cmd(c.UserContext(), c.Params("playback_id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
