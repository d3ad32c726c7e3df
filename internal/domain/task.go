package domain

import "time"

// TaskStatus is the workflow engine's view of a task instance.
type TaskStatus string

const (
	TaskStatusReady     TaskStatus = "READY"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// TaskInstance mirrors one workflow-engine task bound to a case. Rows are
// never deleted; they form the approval audit trail.
type TaskInstance struct {
	InstanceID  string
	TxnID       string
	TaskType    TaskType
	Status      TaskStatus
	Decision    *Decision
	Processor   *string
	CompletedAt *time.Time
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkflowStatus is the completion state of an external workflow instance.
type WorkflowStatus string

const (
	WorkflowStatusRunning   WorkflowStatus = "RUNNING"
	WorkflowStatusCompleted WorkflowStatus = "COMPLETED"
)

// WorkflowProcess records one external workflow instance triggered for a
// case; marked completed when the case reaches a terminal status.
type WorkflowProcess struct {
	InstanceID  string
	TxnID       string
	CaseID      *string
	Description string
	Status      WorkflowStatus
	CompletedAt *time.Time
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
