package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/integration/identity"
	"github.com/spec-kit/case-service/internal/integration/workflow"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

// TxRunner opens a transactional repository scope.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repository.Repos) error) error
}

// IdentityResolver resolves user profiles from the identity service.
type IdentityResolver interface {
	Resolve(ctx context.Context, email string) (*identity.Profile, error)
}

// CaseService coordinates the case lifecycle: creation, draft
// submission, retrieval, comments and attachments.
type CaseService struct {
	store      TxRunner
	repos      repository.Repos
	wf         workflow.Client
	identity   IdentityResolver
	dispatcher events.Dispatcher
	logger     *zap.Logger
	loc        *time.Location
	idPrefix   string
	now        func() time.Time
}

// CaseDependencies bundles collaborators for the case service.
type CaseDependencies struct {
	Store      TxRunner
	Repos      repository.Repos
	Workflow   workflow.Client
	Identity   IdentityResolver
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Location   *time.Location
	IDPrefix   string
	Now        func() time.Time
}

// CaseCreateInput describes case creation payload. Requester fields are
// optional; missing ones are filled from the identity service.
type CaseCreateInput struct {
	RequestType     string
	Draft           bool
	CategoryCode    string
	EntityCode      string
	ReqForEmail     string
	ReqForName      string
	RequesterEmail  string
	RequesterEmpID  string
	RequesterName   string
	RequesterEntity string
	Comment         string
	Language        string
}

// CaseDetail aggregates a case with its children.
type CaseDetail struct {
	Case        domain.CaseRequest
	Tasks       []domain.TaskInstance
	Comments    []domain.Comment
	Attachments []domain.Attachment
}

// AttachmentInput defines attachment metadata.
type AttachmentInput struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CaseService{
		store:      deps.Store,
		repos:      deps.Repos,
		wf:         deps.Workflow,
		identity:   deps.Identity,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		loc:        deps.Location,
		idPrefix:   deps.IDPrefix,
		now:        now,
	}
}

// Create opens a new case, either as a draft or submitted straight into
// the resolution workflow.
func (s *CaseService) Create(ctx context.Context, actor string, input CaseCreateInput) (*domain.CaseRequest, error) {
	if input.RequestType == "" {
		input.RequestType = string(domain.RequestTypeTE)
	}
	requestType, known := domain.ParseRequestType(input.RequestType)
	if !known {
		requestType = domain.RequestType(strings.ToUpper(strings.TrimSpace(input.RequestType)))
	}

	if !input.Draft {
		if input.CategoryCode == "" || input.EntityCode == "" {
			return nil, errorutil.NewValidationError("category and entity are required on submit", nil)
		}
	}

	decision := domain.DecisionSubmit
	idType := domain.SequenceIDRequest
	if input.Draft {
		decision = domain.DecisionDraft
		idType = domain.SequenceIDDraft
	}
	status := domain.NextStatus(requestType, domain.TaskRequester, decision)

	now := s.now()
	requester := s.resolveRequester(ctx, actor, input)
	language := input.Language
	if language == "" {
		language = "en"
	}

	c := &domain.CaseRequest{
		TxnID:           uuid.NewString(),
		RequestType:     requestType,
		Status:          status,
		CategoryCode:    input.CategoryCode,
		EntityCode:      input.EntityCode,
		RequesterEmail:  requester.Email,
		RequesterEmpID:  requester.EmpID,
		RequesterName:   requester.DisplayName(),
		RequesterEntity: requester.Entity,
		ReqForEmail:     coalesce(input.ReqForEmail, requester.Email),
		ReqForName:      coalesce(input.ReqForName, requester.DisplayName()),
		Language:        language,
		CreatedBy:       requester.Email,
		UpdatedBy:       actor,
	}

	if status == domain.StatusPendingResolutionTeam {
		c.EstCompletion = s.estimateCompletion(ctx, now)
	}

	// The counter advances in its own transaction so the minted number
	// is burned even if a later step fails; gaps are acceptable,
	// collisions are not.
	if err := s.mintIdentifier(ctx, c, idType, now, actor); err != nil {
		return nil, err
	}

	var instance *workflow.Instance
	if status == domain.StatusPendingResolutionTeam {
		var err error
		instance, err = s.wf.StartInstance(ctx, s.workflowContext(c))
		if err != nil {
			s.publishFault(ctx, c.TxnID, "StartInstance", err)
			return nil, err
		}
	}

	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := r.Users.Upsert(ctx, requester.coreUser(language, actor, now)); err != nil {
			return err
		}
		if err := r.Cases.Create(ctx, c); err != nil {
			return err
		}
		if input.Comment != "" {
			if err := r.Comments.Create(ctx, s.buildComment(c, domain.TaskRequester, decision, input.Comment, actor)); err != nil {
				return err
			}
		}
		if instance != nil {
			process := &domain.WorkflowProcess{
				InstanceID:  instance.ID,
				TxnID:       c.TxnID,
				CaseID:      c.CaseID,
				Description: "TE service request approval",
				Status:      domain.WorkflowStatusRunning,
				CreatedBy:   actor,
				UpdatedBy:   actor,
			}
			if err := r.Processes.Create(ctx, process); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if instance != nil {
			// The engine instance exists but the case does not; there is
			// no compensation call, so flag it for operators.
			s.logger.Warn("workflow instance is orphaned after failed case persist",
				zap.String("instance_id", instance.ID),
				zap.String("txn_id", c.TxnID),
				zap.Error(err))
			s.publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventWorkflowOutOfSync,
				TxnID:     c.TxnID,
				Actor:     actor,
				Timestamp: s.now(),
				Payload:   events.WorkflowOutOfSyncPayload{InstanceID: instance.ID, Reason: err.Error()},
			})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCaseCreated,
		TxnID:     c.TxnID,
		CaseID:    deref(c.CaseID),
		Actor:     actor,
		Timestamp: s.now(),
		Payload: events.CaseCreatedPayload{
			Status:       c.Status,
			CategoryCode: c.CategoryCode,
			EntityCode:   c.EntityCode,
			Draft:        input.Draft,
		},
	})
	return c, nil
}

// SubmitDraft promotes a draft into the resolution workflow: mints the
// case identifier, stamps the SLA date, triggers the engine and moves
// the status forward.
func (s *CaseService) SubmitDraft(ctx context.Context, actor, txnID string, input CaseCreateInput) (*domain.CaseRequest, error) {
	c, err := s.repos.Cases.GetByTxnID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.StatusDraft {
		return nil, errorutil.NewConflict("case is not a draft", map[string]any{"status": c.Status})
	}

	// Draft submission may complete fields left empty at draft time.
	if input.CategoryCode != "" {
		c.CategoryCode = input.CategoryCode
	}
	if input.EntityCode != "" {
		c.EntityCode = input.EntityCode
	}
	if input.ReqForEmail != "" {
		c.ReqForEmail = input.ReqForEmail
	}
	if input.ReqForName != "" {
		c.ReqForName = input.ReqForName
	}
	if c.CategoryCode == "" || c.EntityCode == "" {
		return nil, errorutil.NewValidationError("category and entity are required on submit", nil)
	}

	now := s.now()
	c.Status = domain.NextStatus(c.RequestType, domain.TaskRequester, domain.DecisionSubmit)
	c.EstCompletion = s.estimateCompletion(ctx, now)
	c.UpdatedBy = actor

	if err := s.mintIdentifier(ctx, c, domain.SequenceIDRequest, now, actor); err != nil {
		return nil, err
	}

	instance, err := s.wf.StartInstance(ctx, s.workflowContext(c))
	if err != nil {
		s.publishFault(ctx, c.TxnID, "StartInstance", err)
		return nil, err
	}

	err = s.store.InTx(ctx, func(r repository.Repos) error {
		if err := r.Cases.Update(ctx, c); err != nil {
			return err
		}
		if input.Comment != "" {
			if err := r.Comments.Create(ctx, s.buildComment(c, domain.TaskRequester, domain.DecisionSubmit, input.Comment, actor)); err != nil {
				return err
			}
		}
		process := &domain.WorkflowProcess{
			InstanceID:  instance.ID,
			TxnID:       c.TxnID,
			CaseID:      c.CaseID,
			Description: "TE service request approval",
			Status:      domain.WorkflowStatusRunning,
			CreatedBy:   actor,
			UpdatedBy:   actor,
		}
		return r.Processes.Create(ctx, process)
	})
	if err != nil {
		s.logger.Warn("workflow instance is orphaned after failed draft submit",
			zap.String("instance_id", instance.ID),
			zap.String("txn_id", c.TxnID),
			zap.Error(err))
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventWorkflowOutOfSync,
			TxnID:     c.TxnID,
			Actor:     actor,
			Timestamp: s.now(),
			Payload:   events.WorkflowOutOfSyncPayload{InstanceID: instance.ID, Reason: err.Error()},
		})
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCaseSubmitted,
		TxnID:     c.TxnID,
		CaseID:    deref(c.CaseID),
		Actor:     actor,
		Timestamp: s.now(),
		Payload: events.CaseCreatedPayload{
			Status:       c.Status,
			CategoryCode: c.CategoryCode,
			EntityCode:   c.EntityCode,
		},
	})
	return c, nil
}

// Get loads a case with its tasks, comments and attachments. The
// identifier may be the transaction UUID or a minted case/draft ID.
func (s *CaseService) Get(ctx context.Context, id string) (*CaseDetail, error) {
	c, err := s.repos.Cases.GetByTxnID(ctx, id)
	if err != nil {
		c, err = s.repos.Cases.GetByCaseID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	tasks, err := s.repos.Tasks.ListByTxnID(ctx, c.TxnID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListByTxnID(ctx, c.TxnID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.repos.Attachments.ListByTxnID(ctx, c.TxnID)
	if err != nil {
		return nil, err
	}
	return &CaseDetail{Case: *c, Tasks: tasks, Comments: comments, Attachments: attachments}, nil
}

// ListMine returns the caller's cases, newest first.
func (s *CaseService) ListMine(ctx context.Context, actor string, limit, offset int) ([]domain.CaseRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repos.Cases.ListByCreator(ctx, actor, limit, offset)
}

// AddComment appends a free-text comment to a case. The comment is
// classified as requester activity.
func (s *CaseService) AddComment(ctx context.Context, actor, txnID, body, language string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errorutil.NewValidationError("comment body is required", nil)
	}
	c, err := s.repos.Cases.GetByTxnID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	comment := s.buildComment(c, domain.TaskRequester, domain.DecisionNotApplicable, body, actor)
	if language != "" {
		comment.Language = language
	}
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// AddAttachment records an uploaded file against a case.
func (s *CaseService) AddAttachment(ctx context.Context, actor, txnID string, input AttachmentInput) (*domain.Attachment, error) {
	if input.FileName == "" || input.StorageKey == "" {
		return nil, errorutil.NewValidationError("file name and storage key are required", nil)
	}
	c, err := s.repos.Cases.GetByTxnID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	attachment := &domain.Attachment{
		ID:         uuid.NewString(),
		TxnID:      c.TxnID,
		FileName:   input.FileName,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
		StorageKey: input.StorageKey,
		CreatedBy:  actor,
	}
	if err := s.repos.Attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

type requesterInfo struct {
	Email  string
	EmpID  string
	First  string
	Last   string
	Entity string
}

func (r requesterInfo) DisplayName() string {
	return strings.TrimSpace(r.First + " " + r.Last)
}

func (r requesterInfo) coreUser(language, actor string, now time.Time) *domain.CoreUser {
	return &domain.CoreUser{
		Email:     r.Email,
		Language:  language,
		EmpID:     r.EmpID,
		FirstName: r.First,
		LastName:  r.Last,
		Entity:    r.Entity,
		Active:    true,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
}

// resolveRequester prefers payload-supplied requester fields and fills
// the gaps from the identity service. Resolution failures degrade to
// whatever the payload carried; only the email is indispensable.
func (s *CaseService) resolveRequester(ctx context.Context, actor string, input CaseCreateInput) requesterInfo {
	info := requesterInfo{
		Email:  coalesce(input.RequesterEmail, actor),
		EmpID:  input.RequesterEmpID,
		Entity: input.RequesterEntity,
	}
	info.First, info.Last = domain.SplitDisplayName(input.RequesterName)

	if info.EmpID != "" && info.First != "" {
		return info
	}
	profile, err := s.identity.Resolve(ctx, info.Email)
	if err != nil {
		s.logger.Warn("requester lookup failed; using payload fields",
			zap.String("email", info.Email), zap.Error(err))
		return info
	}
	if info.EmpID == "" {
		info.EmpID = profile.EmpID
	}
	if info.First == "" && info.Last == "" {
		info.First, info.Last = profile.FirstName, profile.LastName
	}
	if info.Entity == "" {
		info.Entity = profile.Entity
	}
	return info
}

// estimateCompletion computes the SLA date. A holiday calendar read
// failure degrades to an empty set; the estimate is still produced.
func (s *CaseService) estimateCompletion(ctx context.Context, now time.Time) *time.Time {
	dates, err := s.repos.Holidays.ListDates(ctx)
	if err != nil {
		s.logger.Warn("holiday calendar unavailable; estimating without holidays", zap.Error(err))
		dates = nil
	}
	ec := domain.EstimateCompletion(now, s.loc, domain.NewHolidaySet(dates))
	return &ec
}

// mintIdentifier burns the next sequence number and formats the draft
// or case identifier onto the aggregate.
func (s *CaseService) mintIdentifier(ctx context.Context, c *domain.CaseRequest, idType domain.SequenceIDType, now time.Time, actor string) error {
	local := now.In(s.loc)
	return s.store.InTx(ctx, func(r repository.Repos) error {
		seq, err := r.Sequences.Next(ctx, local.Year(), c.RequestType, idType, actor)
		if err != nil {
			return err
		}
		id := domain.FormatRequestID(s.idPrefix, local, c.RequestType, idType, seq)
		if idType == domain.SequenceIDDraft {
			c.DraftID = &id
		} else {
			c.CaseID = &id
		}
		return nil
	})
}

func (s *CaseService) workflowContext(c *domain.CaseRequest) map[string]any {
	return map[string]any{
		"txnId":       c.TxnID,
		"caseId":      deref(c.CaseID),
		"requestType": string(c.RequestType),
		"category":    c.CategoryCode,
		"entity":      c.EntityCode,
		"requester":   c.RequesterEmail,
		"reqFor":      c.ReqForEmail,
	}
}

func (s *CaseService) buildComment(c *domain.CaseRequest, taskType domain.TaskType, decision domain.Decision, body, actor string) *domain.Comment {
	return &domain.Comment{
		ID:            uuid.NewString(),
		TxnID:         c.TxnID,
		CaseID:        c.CaseID,
		Body:          body,
		Language:      c.Language,
		CreatedBy:     actor,
		CreatedByMask: maskEmail(actor),
		Meta:          domain.EnrichComment(taskType, decision),
	}
}

func (s *CaseService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *CaseService) publishFault(ctx context.Context, txnID, operation string, err error) {
	statusCode := 0
	if de := errorutil.ToDomainError(err); de != nil {
		if code, ok := de.Details["wf-response-code"].(int); ok {
			statusCode = code
		}
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventWorkflowFault,
		TxnID:     txnID,
		Timestamp: s.now(),
		Payload:   events.WorkflowFaultPayload{Operation: operation, StatusCode: statusCode, Reason: err.Error()},
	})
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// maskEmail hides the local part of an address for display, keeping the
// first character and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return email
	}
	return email[:1] + strings.Repeat("*", at-1) + email[at:]
}
