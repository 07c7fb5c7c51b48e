package middleware

import (
	"learnflow/internal/domain"
	"learnflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware rejects malformed path parameters before they reach handlers.
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// CatalogIDs checks quiz, course and lesson ids named by params.
func (vm *ValidationMiddleware) CatalogIDs(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, p := range params {
			errs = append(errs, vm.validator.ValidateCatalogID(p, c.Params(p))...)
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}

// ULID checks a session or playback id.
func (vm *ValidationMiddleware) ULID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := vm.validator.ValidateULID(param, c.Params(param)); len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}
