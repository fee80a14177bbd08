package middleware

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/titan/internal/logger"
)

// MaxQueryValue bounds the length of any query value accepted by page routes.
const MaxQueryValue = 256

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a struct against its tags
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// Var validates a single value against a tag
func (v *Validator) Var(value interface{}, tag string) error {
	return v.validate.Var(value, tag)
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}

// ValidateRequest parses and validates the request body. newBody must return
// a fresh pointer per request; the result is stored under "validated".
func ValidateRequest(newBody func() interface{}) fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		s := newBody()
		if err := c.BodyParser(s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(s); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrors(err),
			})
		}

		c.Locals("validated", s)
		return c.Next()
	}
}

// ValidateQueryParams parses and validates query parameters into a fresh
// struct per request; the result is stored under "queryParams".
func ValidateQueryParams(newParams func() interface{}) fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		s := newParams()
		if err := c.QueryParser(s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(s); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fieldErrors(err),
			})
		}

		c.Locals("queryParams", s)
		return c.Next()
	}
}

// ValidateQueryValues checks every query value against tag, for routes whose
// parameter names come from configuration.
func ValidateQueryValues(tag string) fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		var bad string
		c.Context().QueryArgs().VisitAll(func(key, value []byte) {
			if bad == "" && v.Var(string(value), tag) != nil {
				bad = string(key)
			}
		})
		if bad != "" {
			return fiber.NewError(fiber.StatusBadRequest, "invalid query parameter "+bad)
		}
		return c.Next()
	}
}

// ErrorHandler is a middleware that handles errors in a consistent way
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	event := logger.Get().Warn()
	if code >= fiber.StatusInternalServerError {
		event = logger.Get().Error()
	}
	event.Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
