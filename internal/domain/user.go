package domain

import (
	"strings"
	"time"
)

// CoreUser is the locally cached identity record for anyone who has
// touched a case, keyed by (email, language).
type CoreUser struct {
	Email     string
	Language  string
	EmpID     string
	FirstName string
	LastName  string
	Entity    string
	Active    bool
	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName joins first and last name for report rendering.
func (u CoreUser) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SplitDisplayName separates "First Last" into name parts; a single token
// becomes the first name.
func SplitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// AuthMatrixEntry maps a resolution group to a member email.
type AuthMatrixEntry struct {
	AssignedGroup string
	UserEmail     string
	Field1        string
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LookupEntry is one row of language-scoped reference data (service
// categories, entities) keyed by (request type, object, code, language).
type LookupEntry struct {
	RequestType string
	Object      string
	Code        string
	Language    string
	Description string
	Field3      string
	Sequence    int
	CreatedBy   string
	UpdatedBy   string
}

// Lookup object discriminators.
const (
	LookupObjectServiceCategory = "SRV_CAT"
	LookupObjectEntity          = "ENTITY"
)
