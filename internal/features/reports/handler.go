package reports

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/pagination"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Handler struct {
	svc      *Service
	basePath string
}

func NewHandler(svc *Service, basePath string) *Handler {
	return &Handler{svc: svc, basePath: basePath}
}

// CreateReport godoc
// @Summary Submit a report
// @Description Submit a misconduct report with optional evidence files. Anonymous reports return a unique code, the only way to follow up on them.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title, at least 5 words"
// @Param violation formData string true "Violation category"
// @Param location formData string true "Location"
// @Param date formData string true "Incident date (DD-MM-YYYY)"
// @Param actors formData string true "Parties involved"
// @Param detail formData string true "Narrative, at least 50 characters"
// @Param is_anonymous formData bool true "Submit anonymously"
// @Param evidence_files formData file false "Evidence files"
// @Success 201 {object} response.SuccessResponse{data=CreatedResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["evidence_files"]
	}

	report, warnings, err := h.svc.Create(c.Request.Context(), auth.ActorFrom(c), req, files)
	if err != nil {
		h.fail(c, "CreateReport", err)
		return
	}

	out := CreatedResponse{ID: report.ID, Title: report.Title, Status: report.Status}
	if report.UniqueCode != nil {
		out.UniqueCode = *report.UniqueCode
	}
	response.Degraded(c, http.StatusCreated, out, "Report submitted successfully", warnings)
}

// History godoc
// @Summary List my reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]ReportResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /reports/history [get]
func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.svc.History(ctx, auth.ActorFrom(c))
	if err != nil {
		h.fail(c, "History", err)
		return
	}
	h.respondList(c, "History", items, true)
}

// GetReport godoc
// @Summary Get report detail
// @Description Owner or administrator only
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=ReportResponse}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [get]
func (h *Handler) GetReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.svc.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		h.fail(c, "GetReport", err)
		return
	}
	h.respondOne(c, "GetReport", report, h.fileURLByID)
}

// GetAnonymousReport godoc
// @Summary Follow up on an anonymous report
// @Tags reports
// @Produce json
// @Param unique_code path string true "Unique code returned at submission"
// @Success 200 {object} response.SuccessResponse{data=ReportResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /reports/anonymous/{unique_code} [get]
func (h *Handler) GetAnonymousReport(c *gin.Context) {
	report, err := h.svc.GetByCode(c.Request.Context(), c.Param("unique_code"))
	if err != nil {
		h.fail(c, "GetAnonymousReport", err)
		return
	}
	h.respondOne(c, "GetAnonymousReport", report, h.fileURLByCode)
}

// DownloadFile godoc
// @Summary Download a report file
// @Tags reports
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param file_id path int true "File ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id}/files/{file_id} [get]
func (h *Handler) DownloadFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := auth.ActorFrom(c)
	report, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.fail(c, "DownloadFile", err)
		return
	}
	h.sendFile(c, actor, report)
}

// DownloadAnonymousFile godoc
// @Summary Download a file of an anonymous report
// @Tags reports
// @Produce octet-stream
// @Param unique_code path string true "Unique code"
// @Param file_id path int true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/anonymous/{unique_code}/files/{file_id} [get]
func (h *Handler) DownloadAnonymousFile(c *gin.Context) {
	code := c.Param("unique_code")
	report, err := h.svc.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.fail(c, "DownloadAnonymousFile", err)
		return
	}
	h.sendFile(c, access.Anonymous(code), report)
}

// ListReports godoc
// @Summary List reports (admin)
// @Tags admin-reports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(menunggu-verifikasi, diproses, ditolak, selesai)
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.PaginatedResponse{data=[]ReportResponse,meta=AdminListMeta}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	var query AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	ctx := c.Request.Context()

	page := pagination.FromRequest(strconv.Itoa(query.Page), strconv.Itoa(query.PerPage))
	items, total, err := h.svc.List(ctx, Status(query.Status), page.Offset(), page.Limit)
	if err != nil {
		h.fail(c, "ListReports", err)
		return
	}
	people, err := h.svc.People(ctx, items...)
	if err != nil {
		h.fail(c, "ListReports", err)
		return
	}

	out := make([]ReportResponse, 0, len(items))
	for i := range items {
		out = append(out, Present(&items[i], people, h.fileURLByID, false))
	}
	p := pagination.New(page.Page, page.Limit, total)
	response.Paginated(c, out, AdminListMeta{
		CurrentPage: p.Page,
		LastPage:    p.LastPage,
		PerPage:     p.Limit,
		Total:       total,
	})
}

// ExportReports godoc
// @Summary Export reports as XLSX (admin)
// @Tags admin-reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/reports/export [get]
func (h *Handler) ExportReports(c *gin.Context) {
	var query AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), Status(query.Status), &buf); err != nil {
		h.fail(c, "ExportReports", apperrors.Internal("failed to export reports", err))
		return
	}

	name := fmt.Sprintf("laporan-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, ExportContentType, buf.Bytes())
}

// ProcessReport godoc
// @Summary Start handling a report (admin)
// @Description Moves a report from menunggu-verifikasi to diproses and assigns the caller
// @Tags admin-reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=TransitionResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/reports/{id}/process [patch]
func (h *Handler) ProcessReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, warnings, err := h.svc.Process(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		h.fail(c, "ProcessReport", err)
		return
	}
	h.respondTransition(c, "ProcessReport", report, "Report is now being processed", warnings)
}

// RejectReport godoc
// @Summary Reject a report (admin)
// @Description Only reports awaiting verification can be rejected
// @Tags admin-reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param request body RejectRequest true "Rejection reason"
// @Success 200 {object} response.SuccessResponse{data=TransitionResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/reports/{id}/reject [patch]
func (h *Handler) RejectReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	report, warnings, err := h.svc.Reject(c.Request.Context(), auth.ActorFrom(c), id, req.Reason)
	if err != nil {
		h.fail(c, "RejectReport", err)
		return
	}
	h.respondTransition(c, "RejectReport", report, "Report rejected", warnings)
}

// CompleteReport godoc
// @Summary Complete a report (admin)
// @Description Closes a report in handling with notes and an optional handling proof
// @Tags admin-reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param notes formData string true "Handling notes"
// @Param handling_proof formData file false "Handling proof"
// @Success 200 {object} response.SuccessResponse{data=TransitionResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/reports/{id}/complete [patch]
func (h *Handler) CompleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CompleteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}
	proof, err := c.FormFile("handling_proof")
	if err != nil {
		proof = nil
	}

	report, warnings, err := h.svc.Complete(c.Request.Context(), auth.ActorFrom(c), id, req.Notes, proof)
	if err != nil {
		h.fail(c, "CompleteReport", err)
		return
	}
	h.respondTransition(c, "CompleteReport", report, "Report completed", warnings)
}

func (h *Handler) respondOne(c *gin.Context, funcName string, report *Report, fileURL FileURL) {
	people, err := h.svc.People(c.Request.Context(), *report)
	if err != nil {
		h.fail(c, funcName, err)
		return
	}
	response.Success(c, Present(report, people, fileURL, true))
}

func (h *Handler) respondList(c *gin.Context, funcName string, items []Report, detail bool) {
	people, err := h.svc.People(c.Request.Context(), items...)
	if err != nil {
		h.fail(c, funcName, err)
		return
	}
	out := make([]ReportResponse, 0, len(items))
	for i := range items {
		out = append(out, Present(&items[i], people, h.fileURLByID, detail))
	}
	response.Success(c, out)
}

func (h *Handler) respondTransition(c *gin.Context, funcName string, report *Report, message string, warnings []string) {
	people, err := h.svc.People(c.Request.Context(), *report)
	if err != nil {
		h.fail(c, funcName, err)
		return
	}
	response.Degraded(c, http.StatusOK, PresentTransition(report, people), message, warnings)
}

func (h *Handler) sendFile(c *gin.Context, actor access.Actor, report *Report) {
	fileID, ok := parseID(c, "file_id")
	if !ok {
		return
	}
	file, rc, err := h.svc.OpenFile(c.Request.Context(), actor, report, fileID)
	if err != nil {
		h.fail(c, "sendFile", err)
		return
	}
	defer rc.Close()

	name := file.OriginalName
	if name == "" {
		name = fmt.Sprintf("file-%d", file.ID)
	}
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}

func (h *Handler) fileURLByID(r *Report, f ReportFile) string {
	return fmt.Sprintf("%s/reports/%d/files/%d", h.basePath, r.ID, f.ID)
}

func (h *Handler) fileURLByCode(r *Report, f ReportFile) string {
	return fmt.Sprintf("%s/reports/anonymous/%s/files/%d", h.basePath, deref(r.UniqueCode), f.ID)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+param, "INVALID_ID")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, funcName string, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal, apperrors.KindDependency:
		logger.LogError("reports", funcName, c.FullPath(), nil, err)
	}
	response.FromError(c, err)
}
