package notifications

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/pagination"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Get paginated list of the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Items per page (default 10, max 100)"
// @Param is_read query bool false "Filter by read state"
// @Success 200 {object} response.PaginatedResponse{data=[]Notification,meta=ListMeta}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	user := auth.CurrentUser(c)

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	isRead := ValidateNotificationListQuery(&query)
	ctx := c.Request.Context()

	page := pagination.FromRequest(strconv.Itoa(query.Page), strconv.Itoa(query.PerPage))
	items, total, err := h.repo.ListByUser(ctx, user.ID, isRead, page.Offset(), page.Limit)
	if err != nil {
		h.fail(c, "ListNotifications", err)
		return
	}

	unread, err := h.repo.CountUnread(ctx, user.ID)
	if err != nil {
		h.fail(c, "ListNotifications", err)
		return
	}

	p := pagination.New(page.Page, page.Limit, total)
	response.Paginated(c, items, ListMeta{
		UnreadCount: unread,
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		Total:       total,
		TotalPages:  p.LastPage,
	})
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=UnreadCountResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	user := auth.CurrentUser(c)

	count, err := h.repo.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "GetUnreadCount", err)
		return
	}

	response.Success(c, UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Description Only the recipient can mark a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.SuccessResponse{data=MarkReadResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *Handler) MarkAsRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid notification ID", "INVALID_ID")
		return
	}

	// Another user's notification is reported as missing.
	if err := h.repo.MarkAsRead(c.Request.Context(), user.ID, uint(id)); err != nil {
		h.fail(c, "MarkAsRead", err)
		return
	}

	response.Success(c, MarkReadResponse{ID: uint(id), IsRead: true}, "Notification marked as read")
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=MarkAllReadResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/read-all [put]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	count, err := h.repo.MarkAllAsRead(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "MarkAllAsRead", err)
		return
	}

	response.Success(c, MarkAllReadResponse{MarkedCount: count}, "All notifications marked as read")
}

func (h *Handler) fail(c *gin.Context, funcName string, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.LogError("notifications", funcName, c.FullPath(), nil, err)
	}
	response.FromError(c, err)
}
