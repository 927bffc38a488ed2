// Package respx renders every HTTP response in one shape:
// {"success": bool, "data"?: any, "error"?: string, "code"?: string}.
package respx

import (
	"fmt"

	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of a successful response. Data is always present so
// reads that find nothing render "data": null.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// ErrorHandler is the fiber error handler. Domain errors keep their status
// and message; anything else is logged with its cause and reported as a
// generic internal error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"success": false,
			"error":   e.Message,
			"code":    fmt.Sprintf("HTTP_%d", e.Code),
		})
	}

	if e, ok := errx.As(err); ok {
		if e.Type == errx.TypeInternal || e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorf("%s %s: %v", c.Method(), c.Path(), e)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "An unexpected error occurred",
		"code":    "INTERNAL_ERROR",
	})
}
