package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"ngo-filer/internal/dto"
	"ngo-filer/internal/models"
	"ngo-filer/internal/service"
	"ngo-filer/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService   *service.DocumentService
	auditService *service.AuditService
	logger       *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, auditService *service.AuditService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:   docService,
		auditService: auditService,
		logger:       logger,
	}
}

// UploadDocument godoc
// @Summary Upload and process a document
// @Description Validate, classify and file a document with its extracted fields
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Original document"
// @Param fields formData string true "Extracted fields as JSON (dto.ParsedFieldsRequest)"
// @Param project_code formData string false "Project code override"
// @Param grant_code formData string false "Grant code override"
// @Security Bearer
// @Success 201 {object} models.ProcessedDocument
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /documents [post]
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	var fields dto.ParsedFieldsRequest
	if err := json.Unmarshal([]byte(c.FormValue("fields")), &fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fields JSON",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	doc, err := h.docService.Process(c.UserContext(), service.ProcessRequest{
		Content:    content,
		SourceName: file.Filename,
		Fields:     fields.ToModel(),
		Hints: models.Hints{
			ProjectCode: c.FormValue("project_code"),
			GrantCode:   c.FormValue("grant_code"),
		},
		Actor: getActor(c),
	})
	if err != nil {
		return h.serviceError(c, err, "Failed to process document")
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ResubmitDocument godoc
// @Summary Resubmit corrected fields
// @Description Re-run validation and filing for an existing document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.ResubmitRequest true "Corrected fields"
// @Security Bearer
// @Success 200 {object} models.ProcessedDocument
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /documents/{id} [put]
func (h *DocumentHandler) ResubmitDocument(c *fiber.Ctx) error {
	var req dto.ResubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doc, err := h.docService.Resubmit(c.UserContext(), c.Params("id"), service.ProcessRequest{
		Fields: req.Fields.ToModel(),
		Hints: models.Hints{
			ProjectCode: req.ProjectCode,
			GrantCode:   req.GrantCode,
		},
		Actor: getActor(c),
	})
	if err != nil {
		return h.serviceError(c, err, "Failed to resubmit document")
	}

	return c.JSON(doc)
}

// ListDocuments godoc
// @Summary Query the ledger
// @Description List ledger rows matching all given filters
// @Tags documents
// @Produce json
// @Param fiscal_year query string false "Fiscal year, e.g. 2024-2025"
// @Param project_code query string false "Project code"
// @Param grant_code query string false "Grant code"
// @Param vendor query string false "Vendor display name"
// @Param status query string false "Status"
// @Param fund_type query string false "restricted or unrestricted"
// @Param min_amount query number false "Minimum grand total"
// @Param max_amount query number false "Maximum grand total"
// @Param start_date query string false "Earliest issue date (YYYY-MM-DD)"
// @Param end_date query string false "Latest issue date (YYYY-MM-DD)"
// @Security Bearer
// @Success 200 {object} dto.LedgerListResponse
// @Failure 400 {object} map[string]string
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	rows := h.docService.Query(filters)
	return c.JSON(dto.LedgerListResponse{Count: len(rows), Rows: rows})
}

// GetDocument godoc
// @Summary Get a ledger row
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} models.LedgerRow
// @Failure 404 {object} map[string]string
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	row, err := h.docService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.serviceError(c, err, "Failed to get document")
	}
	return c.JSON(row)
}

// DownloadDocument godoc
// @Summary Download the filed document
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /documents/{id}/file [get]
func (h *DocumentHandler) DownloadDocument(c *fiber.Ctx) error {
	rc, name, err := h.docService.OpenFiled(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.serviceError(c, err, "Failed to open document")
	}
	c.Attachment(name)
	return c.SendStream(rc)
}

// GetTransitions godoc
// @Summary List allowed status transitions
// @Tags approval
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.TransitionsResponse
// @Failure 404 {object} map[string]string
// @Router /documents/{id}/transitions [get]
func (h *DocumentHandler) GetTransitions(c *fiber.Ctx) error {
	docID := c.Params("id")
	row, err := h.docService.Get(c.UserContext(), docID)
	if err != nil {
		return h.serviceError(c, err, "Failed to get document")
	}

	available := service.AvailableTransitions(row.Status)
	resp := dto.TransitionsResponse{
		DocID:     docID,
		Current:   string(row.Status),
		Available: make([]string, len(available)),
	}
	for i, s := range available {
		resp.Available[i] = string(s)
	}
	return c.JSON(resp)
}

// TransitionDocument godoc
// @Summary Change document status
// @Description Approving or posting requires the approve permission; the caller is recorded as approver
// @Tags approval
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.TransitionRequest true "Target status"
// @Security Bearer
// @Success 200 {object} models.LedgerRow
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /documents/{id}/transition [post]
func (h *DocumentHandler) TransitionDocument(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	to, err := models.ParseStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if to == models.StatusApproved || to == models.StatusPosted {
		role, _ := c.Locals("role").(string)
		if !models.Role(role).Can(models.PermApprove) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}
	}

	row, err := h.docService.Transition(c.UserContext(), c.Params("id"), to, getActor(c))
	if err != nil {
		return h.serviceError(c, err, "Failed to change status")
	}
	return c.JSON(row)
}

// GetDocumentAudit godoc
// @Summary Audit history of a document
// @Tags audit
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {array} models.AuditEvent
// @Router /documents/{id}/audit [get]
func (h *DocumentHandler) GetDocumentAudit(c *fiber.Ctx) error {
	events, err := h.auditService.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.serviceError(c, err, "Failed to read audit history")
	}
	return c.JSON(events)
}

func (h *DocumentHandler) serviceError(c *fiber.Ctx, err error, msg string) error {
	return writeServiceError(c, err, msg, h.logger)
}

func writeServiceError(c *fiber.Ctx, err error, msg string, logger *zap.Logger) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, storage.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrDocumentPosted):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrApproverRequired), errors.Is(err, service.ErrUnresolvedHighFlags):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyContent):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		logger.Error(msg, zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": msg,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parseFilters(c *fiber.Ctx) (models.LedgerFilters, error) {
	var f models.LedgerFilters
	str := func(key string) *string {
		if v := c.Query(key); v != "" {
			return &v
		}
		return nil
	}
	num := func(key string) (*float64, error) {
		v := c.Query(key)
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
		}
		return &n, nil
	}

	f.FiscalYear = str("fiscal_year")
	f.ProjectCode = str("project_code")
	f.GrantCode = str("grant_code")
	f.Vendor = str("vendor")
	f.Status = str("status")
	f.FundType = str("fund_type")
	f.StartDate = str("start_date")
	f.EndDate = str("end_date")

	var err error
	if f.MinAmount, err = num("min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = num("max_amount"); err != nil {
		return f, err
	}
	return f, nil
}

func getActor(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok && name != "" {
		return name
	}
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return "anonymous"
}
