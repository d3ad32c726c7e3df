package domain

import "time"

// Attachment is an immutable file reference attached to a case.
type Attachment struct {
	ID         string
	TxnID      string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedBy  string
	CreatedAt  time.Time
}
