package dto

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	RequestType     string `json:"request_type"`
	Draft           bool   `json:"draft"`
	CategoryCode    string `json:"category_code"`
	EntityCode      string `json:"entity_code"`
	ReqForEmail     string `json:"req_for_email"`
	ReqForName      string `json:"req_for_name"`
	RequesterEmail  string `json:"requester_email"`
	RequesterEmpID  string `json:"requester_emp_id"`
	RequesterName   string `json:"requester_name"`
	RequesterEntity string `json:"requester_entity"`
	Comment         string `json:"comment"`
	Language        string `json:"language"`
}

// CaseSummary response.
type CaseSummary struct {
	TxnID         string        `json:"txn_id"`
	RequestType   string        `json:"request_type"`
	DraftID       *string       `json:"draft_id,omitempty"`
	CaseID        *string       `json:"case_id,omitempty"`
	ReportNo      *string       `json:"report_no,omitempty"`
	Status        domain.Status `json:"status"`
	CategoryCode  string        `json:"category_code"`
	EntityCode    string        `json:"entity_code"`
	ReqForEmail   string        `json:"req_for_email"`
	ReqForName    string        `json:"req_for_name"`
	Processor     *string       `json:"processor,omitempty"`
	AssignedGroup *string       `json:"assigned_group,omitempty"`
	EstCompletion *time.Time    `json:"est_completion,omitempty"`
	CreatedBy     string        `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CaseDetailResponse provides full case info.
type CaseDetailResponse struct {
	CaseSummary
	RequesterEmpID  string               `json:"requester_emp_id"`
	RequesterName   string               `json:"requester_name"`
	RequesterEntity string               `json:"requester_entity"`
	ClarifiedAt     *time.Time           `json:"clarified_at,omitempty"`
	EscalatedAt     *time.Time           `json:"escalated_at,omitempty"`
	ResolvedAt      *time.Time           `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time           `json:"closed_at,omitempty"`
	Tasks           []TaskResponse       `json:"tasks"`
	Comments        []CommentResponse    `json:"comments"`
	Attachments     []AttachmentResponse `json:"attachments"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Body     string `json:"body"`
	Language string `json:"language"`
}

// CommentResponse represents one case comment.
type CommentResponse struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	CreatedBy   string    `json:"created_by"`
	UserType    string    `json:"user_type"`
	CommentType string    `json:"comment_type"`
	Event       string    `json:"event"`
	EventStatus string    `json:"event_status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddAttachmentRequest payload.
type AddAttachmentRequest struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	StorageKey string `json:"storage_key"`
}

// AttachmentResponse represents one case attachment.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
