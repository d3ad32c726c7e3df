package dto

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// TaskEventRequest is the workflow engine callback payload.
type TaskEventRequest struct {
	TxnID      string `json:"txn_id"`
	InstanceID string `json:"instance_id"`
	TaskType   string `json:"task_type"`
	Decision   string `json:"decision"`
	Processor  string `json:"processor"`
	Comment    string `json:"comment"`
	Language   string `json:"language"`
}

// DecisionRequest is a user decision on the pending case task.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

// TaskResponse represents one workflow task bound to a case.
type TaskResponse struct {
	InstanceID  string            `json:"instance_id"`
	TaskType    domain.TaskType   `json:"task_type"`
	Status      domain.TaskStatus `json:"status"`
	Decision    *domain.Decision  `json:"decision,omitempty"`
	Processor   *string           `json:"processor,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
