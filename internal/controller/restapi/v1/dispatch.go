package v1

import (
	"errors"
	"net/http"

	"github.com/enrollhq/enroll/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

type dispatchRequest struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// @Summary 	Propagate a status change downstream
// @Description Calls both status endpoints; succeeds when at least one acknowledges
// @Tags 		status
// @Accept 		json
// @Produce 	json
// @Param 		request body dispatchRequest true "Status update"
// @Success 	200 {object} dto.DispatchResult
// @Failure 	400 {object} response.Error "Validation error"
// @Failure 	502 {object} dto.DispatchResult "Both endpoints failed"
// @Router 		/v1/status/dispatch [post]
func (r *V1) dispatchStatus(ctx *fiber.Ctx) error {
	var req dispatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	result, err := r.dsp.Dispatch(ctx.UserContext(), req.Username, req.Status)
	if err != nil {
		if errors.Is(err, errs.ErrAllEndpointsFailed) {
			r.logger.Warn("status dispatch failed for %q: %v", req.Username, err)

			return ctx.Status(http.StatusBadGateway).JSON(result)
		}

		return errorResponse(ctx, statusFor(err), err.Error())
	}

	return ctx.Status(http.StatusOK).JSON(result)
}
