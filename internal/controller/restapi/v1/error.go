package v1

import (
	"errors"
	"net/http"

	"github.com/enrollhq/enroll/internal/controller/restapi/v1/response"
	"github.com/enrollhq/enroll/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// statusFor maps the usecase error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAllEndpointsFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
