package events

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated       EventType = "case_created"
	EventCaseSubmitted     EventType = "case_submitted"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventCaseClosed        EventType = "case_closed"
	EventWorkflowOutOfSync EventType = "workflow_out_of_sync"
	EventWorkflowFault     EventType = "workflow_fault"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TxnID     string      `json:"txn_id"`
	CaseID    string      `json:"case_id,omitempty"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	Status       domain.Status `json:"status"`
	CategoryCode string        `json:"category_code"`
	EntityCode   string        `json:"entity_code"`
	Draft        bool          `json:"draft"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.Status   `json:"old_status"`
	NewStatus domain.Status   `json:"new_status"`
	TaskType  domain.TaskType `json:"task_type"`
	Decision  domain.Decision `json:"decision"`
}

// WorkflowOutOfSyncPayload flags an engine instance whose case record
// failed to persist after the trigger succeeded.
type WorkflowOutOfSyncPayload struct {
	InstanceID string `json:"instance_id"`
	Reason     string `json:"reason"`
}

// WorkflowFaultPayload reports an engine call failure.
type WorkflowFaultPayload struct {
	Operation  string `json:"operation"`
	StatusCode int    `json:"status_code"`
	Reason     string `json:"reason"`
}
