package v1

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/enrollhq/enroll/internal/controller/restapi/v1/response"
	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type transitionRequest struct {
	Username   string          `json:"username"`
	NationalID string          `json:"nationalId"`
	Info       *transitionInfo `json:"info"`
	ImageData  string          `json:"imageData"`
	Action     string          `json:"action"`
}

type transitionInfo struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Government string `json:"government"`
}

// @Summary  	Apply a lifecycle transition
// @Description Submit, approve, reject, pause or block an enrolled identity
// @Tags 		entities
// @Accept 		json
// @Produce 	json
// @Param 		request body transitionRequest true "Transition request"
// @Success 	200 {object} response.Transition
// @Failure 	400 {object} response.Error "Validation error"
// @Failure 	404 {object} response.Error "Source directory absent"
// @Failure 	500 {object} response.Error "Storage error"
// @Router 		/v1/entities/transition [post]
func (r *V1) transition(ctx *fiber.Ctx) error {
	var req transitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" {
		return errorResponse(ctx, http.StatusBadRequest, "username is required")
	}

	action, err := entity.ParseAction(req.Action)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	imageData, err := decodeImageData(req.ImageData)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "imageData is not valid base64")
	}

	sub := dto.Submission{
		Username:   req.Username,
		NationalID: req.NationalID,
		Action:     action,
		ImageData:  imageData,
	}
	if req.Info != nil {
		sub.Name = req.Info.Name
		sub.Department = req.Info.Department
		sub.Government = req.Info.Government
	}

	result, err := r.lc.Apply(ctx.UserContext(), sub)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			r.logger.Error(err, "restapi - v1 - transition")

			return errorResponse(ctx, code, "storage problems")
		}

		return errorResponse(ctx, code, err.Error())
	}

	return ctx.Status(http.StatusOK).JSON(response.Transition{
		Success:   true,
		Message:   string(action) + " completed",
		Record:    result.Record,
		SavedPath: result.SavedPath,
	})
}

// @Summary 	List entities
// @Description Scans the status roots and returns the visible collections
// @Tags 		entities
// @Produce 	json
// @Param 		status 		 query string false "Status root (empty = all, grouped)"
// @Param 		search 		 query string false "Free-text search term"
// @Param 		searchFields query string false "Comma-separated field names"
// @Param 		page 		 query int 	  false "1-based page index"
// @Param 		limit 		 query int 	  false "Page size"
// @Param 		paginated 	 query bool	  false "Return a paginated result"
// @Success 	200 {object} dto.ListResult
// @Failure 	400 {object} response.Error "Unknown status"
// @Failure 	500 {object} response.Error "Storage error"
// @Router 		/v1/entities [get]
func (r *V1) listEntities(ctx *fiber.Ctx) error {
	q := dto.ListQuery{
		Status:    entity.Status(strings.ToLower(ctx.Query("status"))),
		Search:    ctx.Query("search"),
		Page:      ctx.QueryInt("page", 1),
		Limit:     ctx.QueryInt("limit", 0),
		Paginated: ctx.QueryBool("paginated", true),
	}

	if fields := ctx.Query("searchFields"); fields != "" {
		q.SearchFields = strings.Split(fields, ",")
	}

	principal := principalFrom(ctx)

	if q.Status == "" {
		grouped, err := r.dir.ListGrouped(ctx.UserContext(), q, principal)
		if err != nil {
			r.logger.Error(err, "restapi - v1 - listEntities")

			return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
		}

		return ctx.Status(http.StatusOK).JSON(grouped)
	}

	result, err := r.dir.List(ctx.UserContext(), q, principal)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			r.logger.Error(err, "restapi - v1 - listEntities")

			return errorResponse(ctx, code, "storage problems")
		}

		return errorResponse(ctx, code, err.Error())
	}

	return ctx.Status(http.StatusOK).JSON(result)
}

// @Summary 	Download the stored photo
// @Tags 		entities
// @Produce 	image/jpeg
// @Param 		status 	 path string true "Status root"
// @Param 		username path string true "Username"
// @Success 	200 {file} 	binary
// @Failure 	400 {object} response.Error "Unknown status"
// @Failure 	404 {object} response.Error "Image not found"
// @Router 		/v1/entities/{status}/{username}/image [get]
func (r *V1) getEntityImage(ctx *fiber.Ctx) error {
	status := entity.Status(strings.ToLower(ctx.Params("status")))
	username := ctx.Params("username")

	data, err := r.dir.Image(ctx.UserContext(), status, username)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			r.logger.Error(err, "restapi - v1 - getEntityImage")

			return errorResponse(ctx, code, "storage problems")
		}

		return errorResponse(ctx, code, err.Error())
	}

	ctx.Set(fiber.HeaderContentType, "image/jpeg")

	return ctx.Send(data)
}

// @Summary 	Delete an approved entity
// @Description True deletion of the approved-root directory; admin only
// @Tags 		entities
// @Param		username path string true "Username"
// @Success		204 "Deleted"
// @Failure 	403 {object} response.Error "Not an admin"
// @Failure 	404 {object} response.Error "Entity not found"
// @Router 		/v1/entities/{username} [delete]
func (r *V1) deleteEntity(ctx *fiber.Ctx) error {
	if !principalFrom(ctx).Elevated() {
		return errorResponse(ctx, http.StatusForbidden, "admin role required")
	}

	err := r.lc.Delete(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			r.logger.Error(err, "restapi - v1 - deleteEntity")

			return errorResponse(ctx, code, "storage problems")
		}

		return errorResponse(ctx, code, err.Error())
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// decodeImageData accepts plain base64 as well as data-URL payloads
// ("data:image/jpeg;base64,...").
func decodeImageData(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx >= 0 {
			s = s[idx+1:]
		}
	}

	return base64.StdEncoding.DecodeString(s)
}
