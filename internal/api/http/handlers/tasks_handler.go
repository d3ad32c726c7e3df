package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/service"
	apperrors "github.com/spec-kit/case-service/pkg/util/errorutil"
)

// TasksHandler receives workflow-engine task callbacks.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// TaskEvent POST /tasks/events.
func (h *TasksHandler) TaskEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TaskEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.tasks.HandleTaskEvent(c.Context(), principal.Email, service.TaskEventInput{
		TxnID:      req.TxnID,
		InstanceID: req.InstanceID,
		TaskType:   req.TaskType,
		Decision:   req.Decision,
		Processor:  req.Processor,
		Comment:    req.Comment,
		Language:   req.Language,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseSummary(updated)})
}
