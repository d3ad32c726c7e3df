package domain

import (
	"fmt"
	"time"
)

// SequenceIDType selects which counter a case identifier is minted from.
type SequenceIDType string

const (
	SequenceIDDraft   SequenceIDType = "DRAFT"
	SequenceIDRequest SequenceIDType = "REQUEST"
)

// FormatRequestID renders a human-readable case identifier:
// {prefix}{year}{month}{requestType}[-DRFT]{five-digit sequence}.
func FormatRequestID(prefix string, at time.Time, requestType RequestType, idType SequenceIDType, seq int) string {
	draft := ""
	if idType == SequenceIDDraft {
		draft = "-DRFT"
	}
	return fmt.Sprintf("%s%d%02d%s%s%05d", prefix, at.Year(), int(at.Month()), requestType, draft, seq)
}
