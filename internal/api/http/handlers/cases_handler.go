package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/service"
	apperrors "github.com/spec-kit/case-service/pkg/util/errorutil"
)

// CasesHandler manages case endpoints.
type CasesHandler struct {
	cases *service.CaseService
	tasks *service.TaskService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(cases *service.CaseService, tasks *service.TaskService) *CasesHandler {
	return &CasesHandler{cases: cases, tasks: tasks}
}

// CreateCase POST /cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CaseCreateInput{
		RequestType:     req.RequestType,
		Draft:           req.Draft,
		CategoryCode:    req.CategoryCode,
		EntityCode:      req.EntityCode,
		ReqForEmail:     req.ReqForEmail,
		ReqForName:      req.ReqForName,
		RequesterEmail:  req.RequesterEmail,
		RequesterEmpID:  req.RequesterEmpID,
		RequesterName:   req.RequesterName,
		RequesterEntity: req.RequesterEntity,
		Comment:         req.Comment,
		Language:        req.Language,
	}
	created, err := h.cases.Create(c.Context(), principal.Email, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": caseSummary(created)})
}

// SubmitDraft POST /cases/:id/submit.
func (h *CasesHandler) SubmitDraft(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CaseCreateInput{
		CategoryCode: req.CategoryCode,
		EntityCode:   req.EntityCode,
		ReqForEmail:  req.ReqForEmail,
		ReqForName:   req.ReqForName,
		Comment:      req.Comment,
	}
	submitted, err := h.cases.SubmitDraft(c.Context(), principal.Email, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseSummary(submitted)})
}

// GetCase GET /cases/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	detail, err := h.cases.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(detail)})
}

// ListCases GET /cases.
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	cases, err := h.cases.ListMine(c.Context(), principal.Email, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CaseSummary, 0, len(cases))
	for i := range cases {
		items = append(items, caseSummary(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddComment POST /cases/:id/comments.
func (h *CasesHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.cases.AddComment(c.Context(), principal.Email, c.Params("id"), req.Body, req.Language)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// AddAttachment POST /cases/:id/attachments.
func (h *CasesHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	attachment, err := h.cases.AddAttachment(c.Context(), principal.Email, c.Params("id"), service.AttachmentInput{
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		StorageKey: req.StorageKey,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// Decide POST /cases/:id/decision.
func (h *CasesHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Decision == "" {
		return apperrors.NewValidationError("decision is required", nil)
	}
	if err := h.tasks.ProcessTaskUpdate(c.Context(), principal.Email, c.Params("id"), req.Decision, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"accepted": true}})
}

func caseSummary(cr *domain.CaseRequest) dto.CaseSummary {
	return dto.CaseSummary{
		TxnID:         cr.TxnID,
		RequestType:   string(cr.RequestType),
		DraftID:       cr.DraftID,
		CaseID:        cr.CaseID,
		ReportNo:      cr.ReportNo,
		Status:        cr.Status,
		CategoryCode:  cr.CategoryCode,
		EntityCode:    cr.EntityCode,
		ReqForEmail:   cr.ReqForEmail,
		ReqForName:    cr.ReqForName,
		Processor:     cr.Processor,
		AssignedGroup: cr.AssignedGroup,
		EstCompletion: cr.EstCompletion,
		CreatedBy:     cr.CreatedBy,
		CreatedAt:     cr.CreatedAt,
		UpdatedAt:     cr.UpdatedAt,
	}
}

func caseDetail(detail *service.CaseDetail) dto.CaseDetailResponse {
	cr := detail.Case
	resp := dto.CaseDetailResponse{
		CaseSummary:     caseSummary(&cr),
		RequesterEmpID:  cr.RequesterEmpID,
		RequesterName:   cr.RequesterName,
		RequesterEntity: cr.RequesterEntity,
		ClarifiedAt:     cr.ClarifiedAt,
		EscalatedAt:     cr.EscalatedAt,
		ResolvedAt:      cr.ResolvedAt,
		ClosedAt:        cr.ClosedAt,
		Tasks:           make([]dto.TaskResponse, 0, len(detail.Tasks)),
		Comments:        make([]dto.CommentResponse, 0, len(detail.Comments)),
		Attachments:     make([]dto.AttachmentResponse, 0, len(detail.Attachments)),
	}
	for i := range detail.Tasks {
		resp.Tasks = append(resp.Tasks, taskResponse(&detail.Tasks[i]))
	}
	for i := range detail.Comments {
		resp.Comments = append(resp.Comments, commentResponse(&detail.Comments[i]))
	}
	for i := range detail.Attachments {
		resp.Attachments = append(resp.Attachments, attachmentResponse(&detail.Attachments[i]))
	}
	return resp
}

func taskResponse(t *domain.TaskInstance) dto.TaskResponse {
	return dto.TaskResponse{
		InstanceID:  t.InstanceID,
		TaskType:    t.TaskType,
		Status:      t.Status,
		Decision:    t.Decision,
		Processor:   t.Processor,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
}

func commentResponse(cm *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          cm.ID,
		Body:        cm.Body,
		CreatedBy:   cm.CreatedByMask,
		UserType:    string(cm.Meta.UserType),
		CommentType: string(cm.Meta.CommentType),
		Event:       string(cm.Meta.Event),
		EventStatus: string(cm.Meta.EventStatus),
		CreatedAt:   cm.CreatedAt,
	}
}

func attachmentResponse(a *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        a.ID,
		FileName:  a.FileName,
		MimeType:  a.MimeType,
		SizeBytes: a.SizeBytes,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}
