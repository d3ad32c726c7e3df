package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrichCommentRequester(t *testing.T) {
	meta := EnrichComment(TaskRequester, DecisionSubmit)
	assert.Equal(t, UserTypeRequester, meta.UserType)
	assert.Equal(t, CommentTypeDocument, meta.CommentType)
	assert.Equal(t, EventRequestCreated, meta.Event)
	assert.Equal(t, EventStatusInProgress, meta.EventStatus)

	// every requester decision documents the creation event
	assert.Equal(t, meta, EnrichComment(TaskRequester, DecisionDraft))
}

func TestEnrichCommentResolutionTeam(t *testing.T) {
	approve := EnrichComment(TaskResolutionTeam, DecisionApprove)
	assert.Equal(t, CommentMeta{UserTypeResolutionTeam, CommentTypeMilestone, EventRequestResolved, EventStatusCompleted}, approve)

	reject := EnrichComment(TaskResolutionTeam, DecisionReject)
	assert.Equal(t, CommentMeta{UserTypeResolutionTeam, CommentTypeDocument, EventNeedClarification, EventStatusOnHold}, reject)

	escalate := EnrichComment(TaskResolutionTeam, DecisionEscalate)
	assert.Equal(t, EventRequestEscalated, escalate.Event)
	assert.Equal(t, EventStatusInProgress, escalate.EventStatus)
}

func TestEnrichCommentAutoEscalation(t *testing.T) {
	meta := EnrichComment(TaskAutoEscalation, DecisionAutoEscalate)
	assert.Equal(t, UserTypeResolutionTeam, meta.UserType)
	assert.Equal(t, EventRequestAutoEscalated, meta.Event)
	assert.Equal(t, EventStatusOnHold, meta.EventStatus)
}

func TestEnrichCommentResolutionLead(t *testing.T) {
	approve := EnrichComment(TaskResolutionLead, DecisionApprove)
	assert.Equal(t, CommentMeta{UserTypeResolutionLead, CommentTypeMilestone, EventRequestResolved, EventStatusCompleted}, approve)

	reject := EnrichComment(TaskResolutionLead, DecisionReject)
	assert.Equal(t, CommentMeta{UserTypeResolutionLead, CommentTypeDocument, EventNeedClarification, EventStatusOnHold}, reject)

	// lead has no escalate path
	assert.Equal(t, NoRuleMatched, EnrichComment(TaskResolutionLead, DecisionEscalate))
}

func TestEnrichCommentSentinel(t *testing.T) {
	meta := EnrichComment(TaskType(""), Decision(""))
	assert.Equal(t, NoRuleMatched, meta)
	assert.Equal(t, CommentTypeDocument, meta.CommentType)
}

func TestEnrichCommentIsIdempotent(t *testing.T) {
	first := EnrichComment(TaskResolutionTeam, DecisionApprove)
	second := EnrichComment(TaskResolutionTeam, DecisionApprove)
	assert.Equal(t, first, second)
}
