package domain

import "time"

// CommentType distinguishes running notes from lifecycle milestones.
type CommentType string

const (
	CommentTypeDocument  CommentType = "document"
	CommentTypeMilestone CommentType = "milestone"
)

// UserType labels the role a comment author acted in.
type UserType string

const (
	UserTypeRequester      UserType = "Requester"
	UserTypeResolutionTeam UserType = "Resolution Team"
	UserTypeResolutionLead UserType = "Resolution Lead"
)

// CommentEvent labels the lifecycle event a comment documents.
type CommentEvent string

const (
	EventRequestCreated       CommentEvent = "Service Request Created"
	EventRequestResolved      CommentEvent = "Service Request Resolved"
	EventNeedClarification    CommentEvent = "Service Request Need Clarification"
	EventRequestEscalated     CommentEvent = "Service Request Escalated"
	EventRequestAutoEscalated CommentEvent = "Service Request Auto Escalated"
)

// EventStatus is the lifecycle stage a comment event corresponds to.
type EventStatus string

const (
	EventStatusInProgress EventStatus = "In Progress"
	EventStatusCompleted  EventStatus = "Completed"
	EventStatusOnHold     EventStatus = "On Hold"
)

// CommentMeta is the derived classification attached to a comment at
// write time.
type CommentMeta struct {
	UserType    UserType
	CommentType CommentType
	Event       CommentEvent
	EventStatus EventStatus
}

// NoRuleMatched is the sentinel returned when no enrichment rule covers
// a (taskType, decision) pair; callers persist the comment with these
// neutral values instead of failing.
var NoRuleMatched = CommentMeta{
	UserType:    "No Task Type Provided",
	CommentType: CommentTypeDocument,
	Event:       "Error Event",
	EventStatus: "Error",
}

type enrichKey struct {
	task     TaskType
	decision Decision
}

var enrichTable = map[enrichKey]CommentMeta{
	{TaskResolutionTeam, DecisionApprove}:      {UserTypeResolutionTeam, CommentTypeMilestone, EventRequestResolved, EventStatusCompleted},
	{TaskResolutionTeam, DecisionReject}:       {UserTypeResolutionTeam, CommentTypeDocument, EventNeedClarification, EventStatusOnHold},
	{TaskResolutionTeam, DecisionEscalate}:     {UserTypeResolutionTeam, CommentTypeDocument, EventRequestEscalated, EventStatusInProgress},
	{TaskAutoEscalation, DecisionAutoEscalate}: {UserTypeResolutionTeam, CommentTypeDocument, EventRequestAutoEscalated, EventStatusOnHold},
	{TaskResolutionLead, DecisionApprove}:      {UserTypeResolutionLead, CommentTypeMilestone, EventRequestResolved, EventStatusCompleted},
	{TaskResolutionLead, DecisionReject}:       {UserTypeResolutionLead, CommentTypeDocument, EventNeedClarification, EventStatusOnHold},
}

// EnrichComment derives comment classification from the task step and
// decision that produced it. Any requester activity is classified as the
// creation document; unmatched pairs yield NoRuleMatched.
func EnrichComment(taskType TaskType, decision Decision) CommentMeta {
	if taskType == TaskRequester {
		return CommentMeta{UserTypeRequester, CommentTypeDocument, EventRequestCreated, EventStatusInProgress}
	}
	if meta, ok := enrichTable[enrichKey{taskType, decision}]; ok {
		return meta
	}
	return NoRuleMatched
}

// Comment is a free-text note attached to a case, immutable once written.
type Comment struct {
	ID            string
	TxnID         string
	CaseID        *string
	Body          string
	Language      string
	CreatedBy     string
	CreatedByMask string
	Meta          CommentMeta
	CreatedAt     time.Time
}
