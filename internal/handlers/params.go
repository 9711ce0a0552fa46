package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// flexNumber accepts a JSON number or a quoted numeric string. The original
// clients send prices both ways; anything non-numeric is rejected before the
// request reaches the database.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("value %s is not numeric", data)
	}
	*n = flexNumber(v)
	return nil
}

// flexID accepts a JSON integer or a quoted integer string for identifier
// fields (userId, storeId).
type flexID uint

func (v *flexID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("value %s is not a valid identifier", data)
	}
	*v = flexID(id)
	return nil
}

// parseIDParam parses the :id path parameter as an unsigned integer.
// Non-numeric input fails with the validation kind, mapping to 400.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not numeric", services.ErrValidation, raw)
	}
	return uint(id), nil
}

// respondError translates a service error into the JSON error contract.
// notFoundMsg carries the per-resource message for the addressed entity.
func respondError(c *fiber.Ctx, err error, notFoundMsg string) error {
	status := fiber.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
		msg = notFoundMsg
	case errors.Is(err, services.ErrDuplicateEmail):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrUserAlreadyHasStore),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStoreNotFound),
		errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	default:
		log.Printf("Internal error: %v", err)
		msg = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// respondValidationErrors renders field-level validation failures.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return respondError(c, fmt.Errorf("%w: %v", services.ErrValidation, err), "")
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation failed",
		"details": errorMessages,
	})
}
