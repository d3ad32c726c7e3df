package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/integration/identity"
	"github.com/spec-kit/case-service/internal/integration/mail"
	"github.com/spec-kit/case-service/internal/integration/workflow"
	"github.com/spec-kit/case-service/internal/repository"
)

// memStore is an in-memory Store stand-in. InTx runs the callback
// against the same repositories. failNextTx queues an outcome per
// transaction: a non-nil error fails that InTx after the callback ran
// (simulating a commit failure), nil lets it through.
type memStore struct {
	repos repository.Repos

	mu      sync.Mutex
	txQueue []error
}

func newMemStore() *memStore {
	s := &memStore{}
	s.repos = repository.Repos{
		Cases:       &memCases{byTxn: map[string]*domain.CaseRequest{}},
		Tasks:       &memTasks{byInstance: map[string]*domain.TaskInstance{}},
		Processes:   &memProcesses{byTxn: map[string]*domain.WorkflowProcess{}},
		Comments:    &memComments{},
		Attachments: &memAttachments{},
		Users:       &memUsers{byKey: map[string]*domain.CoreUser{}},
		AuthMatrix:  &memAuthMatrix{},
		Lookup:      &memLookup{},
		Holidays:    &memHolidays{},
		Sequences:   &memSequences{counters: map[string]int{}},
		Reports:     &memReports{},
	}
	return s
}

func (s *memStore) InTx(ctx context.Context, fn func(repository.Repos) error) error {
	if err := fn(s.repos); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.txQueue) == 0 {
		return nil
	}
	err := s.txQueue[0]
	s.txQueue = s.txQueue[1:]
	return err
}

func (s *memStore) failNextTx(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txQueue = append(s.txQueue, err)
}

type memCases struct {
	mu    sync.Mutex
	byTxn map[string]*domain.CaseRequest
}

func (m *memCases) Create(_ context.Context, c *domain.CaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	m.byTxn[c.TxnID] = &clone
	return nil
}

func (m *memCases) Update(_ context.Context, c *domain.CaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byTxn[c.TxnID]; !ok {
		return pgx.ErrNoRows
	}
	c.UpdatedAt = time.Now()
	clone := *c
	m.byTxn[c.TxnID] = &clone
	return nil
}

func (m *memCases) GetByTxnID(_ context.Context, txnID string) (*domain.CaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byTxn[txnID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *memCases) GetByCaseID(_ context.Context, caseID string) (*domain.CaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byTxn {
		if (c.CaseID != nil && *c.CaseID == caseID) || (c.DraftID != nil && *c.DraftID == caseID) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memCases) ListByCreator(_ context.Context, email string, _, _ int) ([]domain.CaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CaseRequest
	for _, c := range m.byTxn {
		if c.CreatedBy == email {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCases) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.byTxn))
	m.byTxn = map[string]*domain.CaseRequest{}
	return n, nil
}

type memTasks struct {
	mu         sync.Mutex
	byInstance map[string]*domain.TaskInstance
}

func (m *memTasks) Create(_ context.Context, t *domain.TaskInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	clone := *t
	m.byInstance[t.InstanceID] = &clone
	return nil
}

func (m *memTasks) Update(_ context.Context, t *domain.TaskInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byInstance[t.InstanceID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *t
	m.byInstance[t.InstanceID] = &clone
	return nil
}

func (m *memTasks) GetByInstanceID(_ context.Context, instanceID string) (*domain.TaskInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byInstance[instanceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (m *memTasks) ListByTxnID(_ context.Context, txnID string) ([]domain.TaskInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TaskInstance
	for _, t := range m.byInstance {
		if t.TxnID == txnID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTasks) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.byInstance))
	m.byInstance = map[string]*domain.TaskInstance{}
	return n, nil
}

type memProcesses struct {
	mu    sync.Mutex
	byTxn map[string]*domain.WorkflowProcess
}

func (m *memProcesses) Create(_ context.Context, p *domain.WorkflowProcess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	m.byTxn[p.TxnID] = &clone
	return nil
}

func (m *memProcesses) GetByTxnID(_ context.Context, txnID string) (*domain.WorkflowProcess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byTxn[txnID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *memProcesses) MarkCompleted(_ context.Context, txnID, updatedBy string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byTxn[txnID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = domain.WorkflowStatusCompleted
	p.CompletedAt = &at
	p.UpdatedBy = updatedBy
	return nil
}

func (m *memProcesses) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.byTxn))
	m.byTxn = map[string]*domain.WorkflowProcess{}
	return n, nil
}

type memComments struct {
	mu   sync.Mutex
	rows []domain.Comment
}

func (m *memComments) Create(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = time.Now()
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memComments) ListByTxnID(_ context.Context, txnID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, c := range m.rows {
		if c.TxnID == txnID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComments) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

type memAttachments struct {
	mu   sync.Mutex
	rows []domain.Attachment
}

func (m *memAttachments) Create(_ context.Context, a *domain.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = time.Now()
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAttachments) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.ID == id {
			clone := a
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAttachments) ListByTxnID(_ context.Context, txnID string) ([]domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Attachment
	for _, a := range m.rows {
		if a.TxnID == txnID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttachments) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

type memUsers struct {
	mu    sync.Mutex
	byKey map[string]*domain.CoreUser
}

func (m *memUsers) Upsert(_ context.Context, u *domain.CoreUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *u
	m.byKey[u.Email+"|"+u.Language] = &clone
	return nil
}

func (m *memUsers) Get(_ context.Context, email, language string) (*domain.CoreUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byKey[email+"|"+language]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *memUsers) List(context.Context, int, int) ([]domain.CoreUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CoreUser
	for _, u := range m.byKey {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) DeleteByEmails(_ context.Context, emails []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, u := range m.byKey {
		for _, e := range emails {
			if u.Email == e {
				delete(m.byKey, key)
				n++
				break
			}
		}
	}
	return n, nil
}

type memAuthMatrix struct {
	mu   sync.Mutex
	rows []domain.AuthMatrixEntry
}

func (m *memAuthMatrix) Insert(_ context.Context, entries []domain.AuthMatrixEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, entries...)
	return nil
}

func (m *memAuthMatrix) List(context.Context) ([]domain.AuthMatrixEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuthMatrixEntry{}, m.rows...), nil
}

func (m *memAuthMatrix) ListByGroup(_ context.Context, group string) ([]domain.AuthMatrixEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuthMatrixEntry
	for _, e := range m.rows {
		if e.AssignedGroup == group {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memAuthMatrix) Delete(_ context.Context, group, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.AuthMatrixEntry
	var n int64
	for _, e := range m.rows {
		if e.AssignedGroup == group && e.UserEmail == email {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.rows = kept
	return n, nil
}

func (m *memAuthMatrix) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

type memLookup struct {
	mu   sync.Mutex
	rows []domain.LookupEntry
}

func (m *memLookup) Insert(_ context.Context, entries []domain.LookupEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, entries...)
	return nil
}

func (m *memLookup) Get(_ context.Context, requestType, object, code, language string) (*domain.LookupEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rows {
		if e.RequestType == requestType && e.Object == object && e.Code == code && e.Language == language {
			clone := e
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memLookup) ListByObject(_ context.Context, requestType, object, language string) ([]domain.LookupEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LookupEntry
	for _, e := range m.rows {
		if e.RequestType == requestType && e.Object == object && e.Language == language {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLookup) DeleteByObject(_ context.Context, requestType, object string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.LookupEntry
	var n int64
	for _, e := range m.rows {
		if e.RequestType == requestType && e.Object == object {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.rows = kept
	return n, nil
}

type memHolidays struct {
	mu   sync.Mutex
	rows []repository.Holiday
	err  error
}

func (m *memHolidays) Insert(_ context.Context, holidays []repository.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, holidays...)
	return nil
}

func (m *memHolidays) ListDates(context.Context) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []time.Time
	for _, h := range m.rows {
		out = append(out, h.Day)
	}
	return out, nil
}

func (m *memHolidays) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

type memSequences struct {
	mu       sync.Mutex
	counters map[string]int
}

func (m *memSequences) Next(_ context.Context, year int, requestType domain.RequestType, idType domain.SequenceIDType, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", year, requestType, idType)
	m.counters[key]++
	return m.counters[key], nil
}

type memReports struct {
	mu       sync.Mutex
	rows     []repository.ReportRow
	lastPred squirrel.Sqlizer
}

func (m *memReports) List(_ context.Context, predicate squirrel.Sqlizer) ([]repository.ReportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPred = predicate
	return append([]repository.ReportRow{}, m.rows...), nil
}

// fakeWorkflow records engine calls.
type fakeWorkflow struct {
	mu        sync.Mutex
	startErr  error
	started   []map[string]any
	pending   []workflow.Task
	completed []string
}

func (f *fakeWorkflow) StartInstance(_ context.Context, wfContext map[string]any) (*workflow.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = append(f.started, wfContext)
	return &workflow.Instance{ID: "wf-instance-1", Status: "RUNNING"}, nil
}

func (f *fakeWorkflow) PendingTasks(context.Context, string) ([]workflow.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]workflow.Task{}, f.pending...), nil
}

func (f *fakeWorkflow) CompleteTask(_ context.Context, taskID string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, taskID)
	return nil
}

// fakeIdentity resolves from a fixed profile table.
type fakeIdentity struct {
	profiles map[string]*identity.Profile
	err      error
}

func (f *fakeIdentity) Resolve(_ context.Context, email string) (*identity.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[email]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

// fakeMailer records sent messages.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
