package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/internal/service"
	apperrors "github.com/spec-kit/case-service/pkg/util/errorutil"
)

// AdminHandler exposes the maintenance surface.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Purge POST /admin/purge.
func (h *AdminHandler) Purge(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	result, err := h.admin.PurgeCases(c.Context(), principal.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// LoadUsers POST /admin/users.
func (h *AdminHandler) LoadUsers(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UserLoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	users := make([]domain.CoreUser, 0, len(req.Users))
	for _, u := range req.Users {
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		users = append(users, domain.CoreUser{
			Email:     u.Email,
			Language:  u.Language,
			EmpID:     u.EmpID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Entity:    u.Entity,
			Active:    active,
		})
	}
	count, err := h.admin.LoadUsers(c.Context(), principal.Email, users)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"loaded": count}})
}

// DeleteUsers DELETE /admin/users.
func (h *AdminHandler) DeleteUsers(c *fiber.Ctx) error {
	var req dto.UserDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	deleted, err := h.admin.DeleteUsers(c.Context(), req.Emails)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": deleted}})
}

// LoadAuthMatrix POST /admin/auth-matrix.
func (h *AdminHandler) LoadAuthMatrix(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AuthMatrixLoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entries := make([]domain.AuthMatrixEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.AuthMatrixEntry{
			AssignedGroup: e.AssignedGroup,
			UserEmail:     e.UserEmail,
			Field1:        e.Field1,
		})
	}
	count, err := h.admin.LoadAuthMatrix(c.Context(), principal.Email, entries)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"loaded": count}})
}

// ListAuthMatrix GET /admin/auth-matrix.
func (h *AdminHandler) ListAuthMatrix(c *fiber.Ctx) error {
	entries, err := h.admin.ListAuthMatrix(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AuthMatrixPayload, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuthMatrixPayload{
			AssignedGroup: e.AssignedGroup,
			UserEmail:     e.UserEmail,
			Field1:        e.Field1,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteAuthMatrixEntry DELETE /admin/auth-matrix.
func (h *AdminHandler) DeleteAuthMatrixEntry(c *fiber.Ctx) error {
	deleted, err := h.admin.DeleteAuthMatrixEntry(c.Context(), c.Query("group"), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": deleted}})
}

// LoadLookupData POST /admin/lookup.
func (h *AdminHandler) LoadLookupData(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.LookupLoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entries := make([]domain.LookupEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.LookupEntry{
			RequestType: e.RequestType,
			Object:      e.Object,
			Code:        e.Code,
			Language:    e.Language,
			Description: e.Description,
			Field3:      e.Field3,
			Sequence:    e.Sequence,
		})
	}
	count, err := h.admin.LoadLookupData(c.Context(), principal.Email, entries)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"loaded": count}})
}

// ListLookupData GET /admin/lookup.
func (h *AdminHandler) ListLookupData(c *fiber.Ctx) error {
	entries, err := h.admin.ListLookupData(c.Context(), c.Query("request_type"), c.Query("object"), c.Query("language"))
	if err != nil {
		return err
	}
	items := make([]dto.LookupPayload, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.LookupPayload{
			RequestType: e.RequestType,
			Object:      e.Object,
			Code:        e.Code,
			Language:    e.Language,
			Description: e.Description,
			Field3:      e.Field3,
			Sequence:    e.Sequence,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteLookupData DELETE /admin/lookup.
func (h *AdminHandler) DeleteLookupData(c *fiber.Ctx) error {
	deleted, err := h.admin.DeleteLookupData(c.Context(), c.Query("request_type"), c.Query("object"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": deleted}})
}

// LoadHolidays POST /admin/holidays.
func (h *AdminHandler) LoadHolidays(c *fiber.Ctx) error {
	var req dto.HolidayLoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	holidays := make([]repository.Holiday, 0, len(req.Holidays))
	for _, p := range req.Holidays {
		day, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return apperrors.NewValidationError("invalid holiday date: "+p.Date, nil)
		}
		holidays = append(holidays, repository.Holiday{Day: day, Description: p.Description})
	}
	count, err := h.admin.LoadHolidays(c.Context(), holidays, req.Replace)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"loaded": count}})
}

// ListHolidays GET /admin/holidays.
func (h *AdminHandler) ListHolidays(c *fiber.Ctx) error {
	dates, err := h.admin.ListHolidays(c.Context())
	if err != nil {
		return err
	}
	items := make([]string, 0, len(dates))
	for _, d := range dates {
		items = append(items, d.Format("2006-01-02"))
	}
	return c.JSON(fiber.Map{"data": items})
}
