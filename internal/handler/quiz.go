package handler

import (
	"context"

	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/service"
	"learnflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles the quiz-taking HTTP flow
type QuizHandler struct {
	service   service.QuizSessionService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizSessionService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// GetQuizIntro godoc
// @Summary Get a quiz introduction
// @Description Returns quiz metadata and question count, without answers
// @Tags quiz
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.QuizIntroResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quiz_id} [get]
func (h *QuizHandler) GetQuizIntro(c *fiber.Ctx) error {
	intro, err := h.service.GetQuizIntro(c.UserContext(), c.Params("quiz_id"))
	if err != nil {
		return err
	}
	return c.JSON(intro)
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Creates a session positioned at the first question
// @Tags quiz
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 201 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quiz_id}/sessions [post]
func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	view, err := h.service.StartSession(c.UserContext(), c.Params("quiz_id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetSession godoc
// @Summary Get a quiz session
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id} [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.service.GetSession(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// SelectAnswer godoc
// @Summary Select an answer
// @Description Records an option for the current question without advancing
// @Tags quiz
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body dto.SelectAnswerRequest true "Selected option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/answer [post]
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	var req dto.SelectAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be JSON")
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	view, err := h.service.SelectAnswer(c.UserContext(), c.Params("session_id"), req.OptionID)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Next godoc
// @Summary Go to the next question
// @Description Advances, or completes the quiz from the last question. Refused with applied=false when unanswered.
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/next [post]
func (h *QuizHandler) Next(c *fiber.Ctx) error {
	return h.respond(c, h.service.Next)
}

// Previous godoc
// @Summary Go to the previous question
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/previous [post]
func (h *QuizHandler) Previous(c *fiber.Ctx) error {
	return h.respond(c, h.service.Previous)
}

// Restart godoc
// @Summary Retake a completed quiz
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/restart [post]
func (h *QuizHandler) Restart(c *fiber.Ctx) error {
	return h.respond(c, h.service.Restart)
}

// GetResult godoc
// @Summary Get quiz results
// @Description Score, pass/fail and per-question review of a completed session
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/result [get]
func (h *QuizHandler) GetResult(c *fiber.Ctx) error {
	res, err := h.service.GetResult(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Finish godoc
// @Summary Finish a completed quiz
// @Description Announces the score and closes the session
// @Tags quiz
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.FinishResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{session_id}/finish [post]
func (h *QuizHandler) Finish(c *fiber.Ctx) error {
	res, err := h.service.Finish(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Exit godoc
// @Summary Leave a quiz session
// @Tags quiz
// @Param session_id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{session_id} [delete]
func (h *QuizHandler) Exit(c *fiber.Ctx) error {
	if err := h.service.Exit(c.UserContext(), c.Params("session_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type sessionCommand func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)

func (h *QuizHandler) respond(c *fiber.Ctx, cmd sessionCommand) error {
	view, err := cmd(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
