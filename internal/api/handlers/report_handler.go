package handlers

import (
	"bytes"
	"time"

	"ngo-filer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	docService    *service.DocumentService
	reportService *service.ReportService
	exportService *service.ExportService
	auditService  *service.AuditService
	logger        *zap.Logger
}

func NewReportHandler(
	docService *service.DocumentService,
	reportService *service.ReportService,
	exportService *service.ExportService,
	auditService *service.AuditService,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		docService:    docService,
		reportService: reportService,
		exportService: exportService,
		auditService:  auditService,
		logger:        logger,
	}
}

// GetStats godoc
// @Summary Ledger summary statistics
// @Tags reports
// @Produce json
// @Security Bearer
// @Success 200 {object} models.SummaryStats
// @Router /stats [get]
func (h *ReportHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.docService.SummaryStats())
}

// GetFiscalYearReport godoc
// @Summary Fiscal year report
// @Tags reports
// @Produce json
// @Param fy path string true "Fiscal year label, e.g. 2024-2025"
// @Security Bearer
// @Success 200 {object} models.FiscalYearReport
// @Router /reports/fiscal-year/{fy} [get]
func (h *ReportHandler) GetFiscalYearReport(c *fiber.Ctx) error {
	return c.JSON(h.reportService.FiscalYearReport(c.Params("fy")))
}

// GetProjectReport godoc
// @Summary Project report
// @Tags reports
// @Produce json
// @Param code path string true "Project code"
// @Security Bearer
// @Success 200 {object} models.ProjectReport
// @Router /reports/projects/{code} [get]
func (h *ReportHandler) GetProjectReport(c *fiber.Ctx) error {
	return c.JSON(h.reportService.ProjectReport(c.Params("code")))
}

// ExportLedger godoc
// @Summary Export the ledger
// @Description Export rows matching the same filters as the document list
// @Tags reports
// @Produce octet-stream
// @Param format query string false "csv, json or xlsx" default(csv)
// @Security Bearer
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /export [get]
func (h *ReportHandler) ExportLedger(c *fiber.Ctx) error {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var buf bytes.Buffer
	if _, err := h.exportService.Export(c.UserContext(), &buf, format, filters, getActor(c)); err != nil {
		return writeServiceError(c, err, "Failed to export ledger", h.logger)
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Attachment(format.FileName(time.Now()))
	return c.Send(buf.Bytes())
}

// GetRecentAudit godoc
// @Summary Recent audit events
// @Tags audit
// @Produce json
// @Param limit query int false "Limit" default(100)
// @Security Bearer
// @Success 200 {array} models.AuditEvent
// @Router /audit/recent [get]
func (h *ReportHandler) GetRecentAudit(c *fiber.Ctx) error {
	events, err := h.auditService.Recent(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return writeServiceError(c, err, "Failed to read audit trail", h.logger)
	}
	return c.JSON(events)
}
