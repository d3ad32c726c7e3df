package domain

import "time"

// CaseRequest is the aggregate for service requests.
type CaseRequest struct {
	TxnID           string
	RequestType     RequestType
	DraftID         *string
	CaseID          *string
	ReportNo        *string
	Status          Status
	CategoryCode    string
	EntityCode      string
	RequesterEmail  string
	RequesterEmpID  string
	RequesterName   string
	RequesterEntity string
	ReqForEmail     string
	ReqForName      string
	Processor       *string
	AssignedGroup   *string
	EstCompletion   *time.Time
	ClarifiedAt     *time.Time
	EscalatedAt     *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	Language        string
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyDecisionTimestamps stamps the milestone column matching the new
// status. Timestamps are write-once from the case's point of view; later
// transitions stamp their own column.
func (c *CaseRequest) ApplyDecisionTimestamps(status Status, at time.Time) {
	switch status {
	case StatusClarificationRequired, StatusPendingClarification:
		c.ClarifiedAt = &at
	case StatusPendingResolutionLead:
		c.EscalatedAt = &at
	case StatusResolved:
		c.ResolvedAt = &at
	case StatusClosed:
		c.ClosedAt = &at
	}
}
