package chats

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
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

// ListChats godoc
// @Summary List report chat
// @Description Messages of a report, oldest first. Owner or administrator only.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=[]ChatResponse}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id}/chats [get]
func (h *Handler) ListChats(c *gin.Context) {
	thread, ok := threadByID(c)
	if !ok {
		return
	}
	h.list(c, auth.ActorFrom(c), thread)
}

// SendChat godoc
// @Summary Send a chat message
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param request body SendMessageRequest true "Message, at most 2000 characters"
// @Success 201 {object} response.SuccessResponse{data=ChatResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /reports/{id}/chats [post]
func (h *Handler) SendChat(c *gin.Context) {
	thread, ok := threadByID(c)
	if !ok {
		return
	}
	h.send(c, auth.ActorFrom(c), thread)
}

// ListAnonymousChats godoc
// @Summary List chat of an anonymous report
// @Tags chats
// @Produce json
// @Param unique_code path string true "Unique code"
// @Success 200 {object} response.SuccessResponse{data=[]ChatResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/anonymous/{unique_code}/chats [get]
func (h *Handler) ListAnonymousChats(c *gin.Context) {
	code := c.Param("unique_code")
	h.list(c, access.Anonymous(code), Thread{Code: code})
}

// SendAnonymousChat godoc
// @Summary Send a message on an anonymous report
// @Tags chats
// @Accept json
// @Produce json
// @Param unique_code path string true "Unique code"
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} response.SuccessResponse{data=ChatResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/anonymous/{unique_code}/chats [post]
func (h *Handler) SendAnonymousChat(c *gin.Context) {
	code := c.Param("unique_code")
	h.send(c, access.Anonymous(code), Thread{Code: code})
}

func (h *Handler) list(c *gin.Context, actor access.Actor, thread Thread) {
	items, err := h.svc.List(c.Request.Context(), actor, thread)
	if err != nil {
		h.fail(c, "ListChats", err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) send(c *gin.Context, actor access.Actor, thread Thread) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	chat, warnings, err := h.svc.Post(c.Request.Context(), actor, thread, req.Message)
	if err != nil {
		h.fail(c, "SendChat", err)
		return
	}
	response.Degraded(c, http.StatusCreated, chat, "Message sent", warnings)
}

func threadByID(c *gin.Context) (Thread, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return Thread{}, false
	}
	return Thread{ReportID: uint(id)}, true
}

func (h *Handler) fail(c *gin.Context, funcName string, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.LogError("chats", funcName, c.FullPath(), nil, err)
	}
	response.FromError(c, err)
}
