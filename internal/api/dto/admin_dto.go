package dto

// UserLoadRequest mass-creates identity rows.
type UserLoadRequest struct {
	Users []UserPayload `json:"users"`
}

// UserPayload is one identity row.
type UserPayload struct {
	Email     string `json:"email"`
	Language  string `json:"language"`
	EmpID     string `json:"emp_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Entity    string `json:"entity"`
	Active    *bool  `json:"active"`
}

// UserDeleteRequest removes identity rows by email.
type UserDeleteRequest struct {
	Emails []string `json:"emails"`
}

// AuthMatrixLoadRequest mass-creates membership rows.
type AuthMatrixLoadRequest struct {
	Entries []AuthMatrixPayload `json:"entries"`
}

// AuthMatrixPayload is one membership row.
type AuthMatrixPayload struct {
	AssignedGroup string `json:"assigned_group"`
	UserEmail     string `json:"user_email"`
	Field1        string `json:"field1"`
}

// LookupLoadRequest mass-creates reference rows.
type LookupLoadRequest struct {
	Entries []LookupPayload `json:"entries"`
}

// LookupPayload is one reference row.
type LookupPayload struct {
	RequestType string `json:"request_type"`
	Object      string `json:"object"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Description string `json:"description"`
	Field3      string `json:"field3"`
	Sequence    int    `json:"sequence"`
}

// HolidayLoadRequest maintains the holiday calendar. Dates use
// YYYY-MM-DD.
type HolidayLoadRequest struct {
	Replace  bool             `json:"replace"`
	Holidays []HolidayPayload `json:"holidays"`
}

// HolidayPayload is one calendar date.
type HolidayPayload struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// MailReportRequest asks for a report export by mail.
type MailReportRequest struct {
	Variant    string   `json:"variant"`
	Recipients []string `json:"recipients"`
}
