package admins

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListAdmins godoc
// @Summary List administrators
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]AdminResponse}
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/admins [get]
func (h *Handler) ListAdmins(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		h.fail(c, "ListAdmins", err)
		return
	}
	response.Success(c, items)
}

// CreateAdmin godoc
// @Summary Create an administrator
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdminRequest true "Administrator account"
// @Success 201 {object} response.SuccessResponse{data=AdminResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/admins [post]
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	admin, err := h.svc.Create(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		h.fail(c, "CreateAdmin", err)
		return
	}
	response.Created(c, admin, "Admin created successfully")
}

// UpdateAdmin godoc
// @Summary Update an administrator
// @Description Super-admin accounts cannot be modified
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param request body UpdateAdminRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=AdminResponse}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/admins/{id} [put]
func (h *Handler) UpdateAdmin(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	admin, err := h.svc.Update(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, "UpdateAdmin", err)
		return
	}
	response.Success(c, admin, "Admin updated successfully")
}

// DeleteAdmin godoc
// @Summary Delete an administrator
// @Description Super-admin accounts cannot be deleted
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/admins/{id} [delete]
func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.ActorFrom(c), id); err != nil {
		h.fail(c, "DeleteAdmin", err)
		return
	}
	response.Success(c, nil, "Admin deleted successfully")
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid admin ID", "INVALID_ID")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, funcName string, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.LogError("admins", funcName, c.FullPath(), nil, err)
	}
	response.FromError(c, err)
}
