package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// UserDashboard godoc
// @Summary Reporter dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=UserDashboard}
// @Router /dashboard/user [get]
func (h *Handler) UserDashboard(c *gin.Context) {
	data, err := h.svc.User(c.Request.Context(), auth.ActorFrom(c))
	h.respond(c, "UserDashboard", data, err)
}

// AdminDashboard godoc
// @Summary Administrator dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=AdminDashboard}
// @Router /dashboard/admin [get]
func (h *Handler) AdminDashboard(c *gin.Context) {
	data, err := h.svc.Admin(c.Request.Context())
	h.respond(c, "AdminDashboard", data, err)
}

// SuperAdminDashboard godoc
// @Summary Super-admin dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=SuperAdminDashboard}
// @Router /dashboard/super-admin [get]
func (h *Handler) SuperAdminDashboard(c *gin.Context) {
	data, err := h.svc.SuperAdmin(c.Request.Context())
	h.respond(c, "SuperAdminDashboard", data, err)
}

// OverviewStats godoc
// @Summary Report totals per status
// @Tags admin-stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=OverviewStats}
// @Router /admin/stats/overview [get]
func (h *Handler) OverviewStats(c *gin.Context) {
	data, err := h.svc.Overview(c.Request.Context())
	h.respond(c, "OverviewStats", data, err)
}

// ReportStats godoc
// @Summary Report chart data
// @Tags admin-stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=ReportStats}
// @Router /admin/stats/reports [get]
func (h *Handler) ReportStats(c *gin.Context) {
	data, err := h.svc.ReportStats(c.Request.Context())
	h.respond(c, "ReportStats", data, err)
}

func (h *Handler) respond(c *gin.Context, funcName string, data interface{}, err error) {
	if err != nil {
		logger.LogError("dashboard", funcName, c.FullPath(), nil, err)
		response.FromError(c, apperrors.Internal("failed to load dashboard", err))
		return
	}
	response.Success(c, data)
}
