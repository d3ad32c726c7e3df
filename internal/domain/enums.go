package domain

import "strings"

// RequestType identifies the business process a case belongs to. Only
// travel-and-expense is live today; the transition table deliberately
// refuses anything else.
type RequestType string

const (
	RequestTypeTE RequestType = "TE"
)

// TaskType identifies which workflow step produced a decision.
type TaskType string

const (
	TaskRequester      TaskType = "TE_REQUESTER"
	TaskResolutionTeam TaskType = "TE_RESO_TEAM"
	TaskResolutionLead TaskType = "TE_RESO_LEAD"
	TaskAutoEscalation TaskType = "TE_AUTO_ESLA"
)

// Decision is the outcome a task actor records.
type Decision string

const (
	DecisionDraft         Decision = "DRF"
	DecisionSubmit        Decision = "SUB"
	DecisionResubmit      Decision = "RSB"
	DecisionApprove       Decision = "APR"
	DecisionReject        Decision = "REJ"
	DecisionEscalate      Decision = "ESL"
	DecisionAutoEscalate  Decision = "ESLA"
	DecisionNotApplicable Decision = "NA"
	DecisionAutoClose     Decision = "CLDA"
)

// Status is the lifecycle state of a case request.
type Status string

const (
	StatusDraft                 Status = "DRF"
	StatusPendingResolutionTeam Status = "PRT"
	StatusPendingClarification  Status = "PRC"
	StatusClarificationRequired Status = "CLR"
	StatusPendingResolutionLead Status = "PRL"
	StatusResolved              Status = "RSL"
	StatusClosed                Status = "CLD"
	StatusError                 Status = "ERR"
)

// IsTerminal reports whether no further workflow activity is expected.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// normalizeToken folds loosely formatted caller input into the canonical
// UPPER_SNAKE form used by the enum tables: trim, camelCase to snake,
// spaces and dashes to underscores, upper-case.
func normalizeToken(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	b.Grow(len(value) + 4)
	for i, r := range value {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z' && i > 0:
			prev := value[i-1]
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

var decisionAliases = map[string]Decision{
	"DRF":            DecisionDraft,
	"DRAFT":          DecisionDraft,
	"SUB":            DecisionSubmit,
	"SUBMIT":         DecisionSubmit,
	"RSB":            DecisionResubmit,
	"RESUBMIT":       DecisionResubmit,
	"RE_SUBMIT":      DecisionResubmit,
	"APR":            DecisionApprove,
	"APPROVE":        DecisionApprove,
	"APPROVED":       DecisionApprove,
	"REJ":            DecisionReject,
	"REJECT":         DecisionReject,
	"REJECTED":       DecisionReject,
	"ESL":            DecisionEscalate,
	"ESCALATE":       DecisionEscalate,
	"ESCALATED":      DecisionEscalate,
	"ESLA":           DecisionAutoEscalate,
	"AUTO_ESCALATE":  DecisionAutoEscalate,
	"AUTO_ESCALATED": DecisionAutoEscalate,
	"NA":             DecisionNotApplicable,
	"NOT_APPLICABLE": DecisionNotApplicable,
	"CLDA":           DecisionAutoClose,
	"AUTO_CLOSE":     DecisionAutoClose,
}

// ParseDecision maps machine codes and loosely formatted strings
// ("submit", "Escalate", "autoEscalate") onto the closed Decision set.
func ParseDecision(value string) (Decision, bool) {
	d, ok := decisionAliases[normalizeToken(value)]
	return d, ok
}

var taskTypeAliases = map[string]TaskType{
	"TE_REQUESTER":  TaskRequester,
	"TE_RESO_TEAM":  TaskResolutionTeam,
	"TE_RESO":       TaskResolutionTeam,
	"TE_RESO_LEAD":  TaskResolutionLead,
	"TE_AUTO_ESLA":  TaskAutoEscalation,
	"AUTO_ESCALATE": TaskAutoEscalation,
}

// ParseTaskType maps workflow task definition ids onto the TaskType set.
func ParseTaskType(value string) (TaskType, bool) {
	t, ok := taskTypeAliases[normalizeToken(value)]
	return t, ok
}

// ParseRequestType recognizes the supported request types.
func ParseRequestType(value string) (RequestType, bool) {
	if normalizeToken(value) == string(RequestTypeTE) {
		return RequestTypeTE, true
	}
	return "", false
}
