package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/reporting"
	"github.com/spec-kit/case-service/internal/service"
	apperrors "github.com/spec-kit/case-service/pkg/util/errorutil"
)

// ReportsHandler serves role-scoped case reports.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// List GET /reports?variant=....
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.reports.List(c.Context(), servicePrincipal(principal), c.Query("variant"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Export GET /reports/export?variant=....
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	workbook, filename, err := h.reports.Export(c.Context(), servicePrincipal(principal), c.Query("variant"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, reporting.ExcelMimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(workbook)
}

// Email POST /reports/email.
func (h *ReportsHandler) Email(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.MailReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.reports.Email(c.Context(), servicePrincipal(principal), req.Variant, req.Recipients); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"queued": true}})
}

func servicePrincipal(p *auth.Principal) service.Principal {
	return service.Principal{Email: p.Email, Groups: p.Groups}
}
