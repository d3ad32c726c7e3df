package domain

// NextStatus maps a recorded task decision to the case status that
// follows it. It is total: undeclared combinations return StatusError
// instead of failing, so callers decide how to surface them.
func NextStatus(requestType RequestType, taskType TaskType, decision Decision) Status {
	if requestType != RequestTypeTE {
		return StatusError
	}
	switch taskType {
	case TaskRequester:
		switch decision {
		case DecisionDraft:
			return StatusDraft
		case DecisionSubmit, DecisionResubmit:
			return StatusPendingResolutionTeam
		case DecisionAutoClose:
			return StatusClosed
		case DecisionNotApplicable:
			return StatusPendingClarification
		default:
			return StatusError
		}
	case TaskResolutionTeam:
		switch decision {
		case DecisionApprove:
			return StatusResolved
		case DecisionReject:
			return StatusClarificationRequired
		case DecisionEscalate, DecisionAutoEscalate:
			return StatusPendingResolutionLead
		case DecisionNotApplicable:
			return StatusPendingClarification
		default:
			return StatusError
		}
	case TaskResolutionLead:
		switch decision {
		case DecisionApprove:
			return StatusResolved
		case DecisionReject:
			return StatusClarificationRequired
		case DecisionNotApplicable:
			return StatusPendingClarification
		default:
			return StatusError
		}
	default:
		return StatusError
	}
}
