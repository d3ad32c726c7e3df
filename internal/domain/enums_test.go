package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDecisionAliases(t *testing.T) {
	cases := map[string]Decision{
		"submit":        DecisionSubmit,
		"SUB":           DecisionSubmit,
		" CLDA ":        DecisionAutoClose,
		"draft":         DecisionDraft,
		"Escalate":      DecisionEscalate,
		"escalated":     DecisionEscalate,
		"autoEscalate":  DecisionAutoEscalate,
		"ESLA":          DecisionAutoEscalate,
		"approve":       DecisionApprove,
		"Approved":      DecisionApprove,
		"reject":        DecisionReject,
		"re-submit":     DecisionResubmit,
		"resubmit":      DecisionResubmit,
		"notApplicable": DecisionNotApplicable,
		"not applicable": DecisionNotApplicable,
	}
	for input, want := range cases {
		got, ok := ParseDecision(input)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ParseDecision("frobnicate")
	assert.False(t, ok)
	_, ok = ParseDecision("")
	assert.False(t, ok)
}

func TestParseTaskType(t *testing.T) {
	cases := map[string]TaskType{
		" TE_REQUESTER ": TaskRequester,
		"te_reso_team":   TaskResolutionTeam,
		"TE_RESO":        TaskResolutionTeam,
		"TE_RESO_LEAD":   TaskResolutionLead,
		"TE_AUTO_ESLA":   TaskAutoEscalation,
	}
	for input, want := range cases {
		got, ok := ParseTaskType(input)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ParseTaskType("OTC_REQUESTER")
	assert.False(t, ok)
}

func TestParseRequestType(t *testing.T) {
	got, ok := ParseRequestType(" te ")
	assert.True(t, ok)
	assert.Equal(t, RequestTypeTE, got)

	_, ok = ParseRequestType("PTP")
	assert.False(t, ok)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusPendingResolutionLead.IsTerminal())
}

func TestFormatRequestID(t *testing.T) {
	at := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "CASE202503TE-DRFT00001", FormatRequestID("CASE", at, RequestTypeTE, SequenceIDDraft, 1))
	assert.Equal(t, "CASE202503TE-DRFT00002", FormatRequestID("CASE", at, RequestTypeTE, SequenceIDDraft, 2))
	assert.Equal(t, "CASE202503TE00001", FormatRequestID("CASE", at, RequestTypeTE, SequenceIDRequest, 1))
	assert.Equal(t, "CASE202512TE00123", FormatRequestID("CASE", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), RequestTypeTE, SequenceIDRequest, 123))
}

func TestSplitDisplayName(t *testing.T) {
	first, last := SplitDisplayName("Payload User")
	assert.Equal(t, "Payload", first)
	assert.Equal(t, "User", last)

	first, last = SplitDisplayName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)

	first, last = SplitDisplayName("Anna Maria van den Berg")
	assert.Equal(t, "Anna", first)
	assert.Equal(t, "Maria van den Berg", last)
}
