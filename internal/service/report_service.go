package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/integration/mail"
	"github.com/spec-kit/case-service/internal/reporting"
	"github.com/spec-kit/case-service/internal/repository"
)

const (
	reportTimestampLayout = "02-01-2006 15:04:05"
	reportDateLayout      = "02-01-2006"
)

// Principal is the authenticated caller as extracted from the token.
type Principal struct {
	Email  string
	Groups []string
}

// ReportEntry is one rendered report row; timestamps are already
// formatted in the business timezone.
type ReportEntry struct {
	CaseID        string `json:"case_id"`
	DraftID       string `json:"draft_id,omitempty"`
	ReportNo      string `json:"report_no,omitempty"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	Entity        string `json:"entity"`
	CreatedBy     string `json:"created_by"`
	CreatedByName string `json:"created_by_name"`
	ReqFor        string `json:"req_for"`
	Processor     string `json:"processor,omitempty"`
	AssignedGroup string `json:"assigned_group,omitempty"`
	EstCompletion string `json:"est_completion,omitempty"`
	EscalatedAt   string `json:"escalated_at,omitempty"`
	ResolvedAt    string `json:"resolved_at,omitempty"`
	ClosedAt      string `json:"closed_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

var reportHeaders = []string{
	"Case ID", "Draft ID", "Report No", "Status", "Category", "Entity",
	"Created By", "Created By Name", "Requested For", "Processor",
	"Assigned Group", "Est. Completion", "Escalated On", "Resolved On",
	"Closed On", "Created On", "Updated On",
}

// ReportService serves role-scoped case reports: listing, spreadsheet
// export and mail delivery.
type ReportService struct {
	repos    repository.Repos
	identity IdentityResolver
	mailer   mail.Client
	logger   *zap.Logger
	loc      *time.Location
}

// NewReportService constructs the service.
func NewReportService(repos repository.Repos, resolver IdentityResolver, mailer mail.Client, logger *zap.Logger, loc *time.Location) *ReportService {
	return &ReportService{repos: repos, identity: resolver, mailer: mailer, logger: logger, loc: loc}
}

// List returns the report rows the caller's variant and group
// memberships entitle them to.
func (s *ReportService) List(ctx context.Context, principal Principal, rawVariant string) ([]ReportEntry, error) {
	caller := s.resolveCaller(ctx, principal)
	variant := reporting.NormalizeVariant(rawVariant)
	predicate := reporting.BuildVariantFilter(caller, variant)

	rows, err := s.repos.Reports.List(ctx, predicate)
	if err != nil {
		return nil, err
	}

	entries := make([]ReportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, s.render(row))
	}
	return entries, nil
}

// Export renders the caller's report as a spreadsheet.
func (s *ReportService) Export(ctx context.Context, principal Principal, rawVariant string) ([]byte, string, error) {
	entries, err := s.List(ctx, principal, rawVariant)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CaseID, e.DraftID, e.ReportNo, e.Status, e.Category, e.Entity,
			e.CreatedBy, e.CreatedByName, e.ReqFor, e.Processor,
			e.AssignedGroup, e.EstCompletion, e.EscalatedAt, e.ResolvedAt,
			e.ClosedAt, e.CreatedAt, e.UpdatedAt,
		})
	}

	variant := reporting.NormalizeVariant(rawVariant)
	filename := fmt.Sprintf("case-report-%s-%s.xls", variant, time.Now().In(s.loc).Format("20060102-150405"))
	return reporting.Workbook("Case Report", reportHeaders, rows), filename, nil
}

// Email exports the report and mails it to the recipients. Delivery is
// best effort: a mail failure is logged and does not fail the request.
func (s *ReportService) Email(ctx context.Context, principal Principal, rawVariant string, recipients []string) error {
	if len(recipients) == 0 {
		recipients = []string{principal.Email}
	}
	workbook, filename, err := s.Export(ctx, principal, rawVariant)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      recipients,
		Subject: "Case report export",
		Body:    "Attached is the requested case report.",
		Attachments: []mail.Attachment{{
			Name:     filename,
			MimeType: reporting.ExcelMimeType,
			Content:  base64.StdEncoding.EncodeToString(workbook),
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("report mail delivery failed", zap.Strings("to", recipients), zap.Error(err))
	}
	return nil
}

// resolveCaller refreshes group memberships from the identity service;
// when the lookup fails the token claims stand.
func (s *ReportService) resolveCaller(ctx context.Context, principal Principal) reporting.Caller {
	caller := reporting.Caller{Email: principal.Email, Groups: principal.Groups}
	if principal.Email == "" {
		return caller
	}
	profile, err := s.identity.Resolve(ctx, principal.Email)
	if err != nil {
		s.logger.Warn("caller group refresh failed; using token claims",
			zap.String("email", principal.Email), zap.Error(err))
		return caller
	}
	caller.Email = profile.Email
	if len(profile.Groups) > 0 {
		caller.Groups = profile.Groups
	}
	return caller
}

func (s *ReportService) render(row repository.ReportRow) ReportEntry {
	return ReportEntry{
		CaseID:        deref(row.CaseID),
		DraftID:       deref(row.DraftID),
		ReportNo:      deref(row.ReportNo),
		Status:        row.Status,
		Category:      coalesce(deref(row.CategoryDesc), row.CategoryCode),
		Entity:        coalesce(deref(row.EntityDesc), row.EntityCode),
		CreatedBy:     row.CreatedBy,
		CreatedByName: row.CreatedByName,
		ReqFor:        coalesce(row.ReqForName, row.ReqForEmail),
		Processor:     coalesce(deref(row.ProcessorName), deref(row.Processor)),
		AssignedGroup: deref(row.AssignedGroup),
		EstCompletion: s.formatDate(row.EstCompletion),
		EscalatedAt:   s.formatTimestamp(row.EscalatedAt),
		ResolvedAt:    s.formatTimestamp(row.ResolvedAt),
		ClosedAt:      s.formatTimestamp(row.ClosedAt),
		CreatedAt:     s.formatTimestamp(&row.CreatedAt),
		UpdatedAt:     s.formatTimestamp(&row.UpdatedAt),
	}
}

func (s *ReportService) formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format(reportTimestampLayout)
}

func (s *ReportService) formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format(reportDateLayout)
}
