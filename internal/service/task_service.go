package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/integration/workflow"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

// TaskService applies workflow task outcomes to cases. HandleTaskEvent
// is the engine-callback path; ProcessTaskUpdate is the user-decision
// path that completes the engine task first.
type TaskService struct {
	store      TxRunner
	repos      repository.Repos
	wf         workflow.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	Store      TxRunner
	Repos      repository.Repos
	Workflow   workflow.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// TaskEventInput is the engine callback payload. Token fields arrive in
// whatever casing the engine sends and are normalized here.
type TaskEventInput struct {
	TxnID      string
	InstanceID string
	TaskType   string
	Decision   string
	Processor  string
	Comment    string
	Language   string
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		store:      deps.Store,
		repos:      deps.Repos,
		wf:         deps.Workflow,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        now,
	}
}

// HandleTaskEvent records a completed workflow task against its case:
// the task row is upserted, the case status moves per the transition
// table, the matching milestone timestamp is stamped, and a terminal
// status completes the workflow process record. Undeclared
// (task, decision) combinations park the case in ERR rather than fail.
func (s *TaskService) HandleTaskEvent(ctx context.Context, actor string, input TaskEventInput) (*domain.CaseRequest, error) {
	if input.TxnID == "" {
		return nil, errorutil.NewValidationError("txn id is required", nil)
	}

	decision := parseDecisionToken(input.Decision)
	taskType := parseTaskTypeToken(input.TaskType)
	now := s.now()

	var updated *domain.CaseRequest
	var oldStatus domain.Status
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		c, err := r.Cases.GetByTxnID(ctx, input.TxnID)
		if err != nil {
			return err
		}
		oldStatus = c.Status

		instanceID, err := s.resolveTaskInstance(ctx, r, c, input, taskType)
		if err != nil {
			return err
		}

		if err := s.completeLocalTask(ctx, r, c, instanceID, taskType, decision, input.Processor, actor, now); err != nil {
			return err
		}

		newStatus := domain.NextStatus(c.RequestType, taskType, decision)
		c.Status = newStatus
		c.ApplyDecisionTimestamps(newStatus, now)
		if input.Processor != "" {
			processor := input.Processor
			c.Processor = &processor
		}
		c.UpdatedBy = actor
		if err := r.Cases.Update(ctx, c); err != nil {
			return err
		}

		if isTerminal(newStatus) {
			if err := r.Processes.MarkCompleted(ctx, c.TxnID, actor, now); err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}

		if input.Comment != "" {
			comment := &domain.Comment{
				ID:            uuid.NewString(),
				TxnID:         c.TxnID,
				CaseID:        c.CaseID,
				Body:          input.Comment,
				Language:      coalesce(input.Language, c.Language),
				CreatedBy:     coalesce(input.Processor, actor),
				CreatedByMask: maskEmail(coalesce(input.Processor, actor)),
				Meta:          domain.EnrichComment(taskType, decision),
			}
			if err := r.Comments.Create(ctx, comment); err != nil {
				return err
			}
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := events.EventCaseStatusChanged
	if isTerminal(updated.Status) {
		eventType = events.EventCaseClosed
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TxnID:     updated.TxnID,
		CaseID:    deref(updated.CaseID),
		Actor:     actor,
		Timestamp: s.now(),
		Payload: events.CaseStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
			TaskType:  taskType,
			Decision:  decision,
		},
	})
	return updated, nil
}

// ProcessTaskUpdate completes the pending engine task for a case with
// the given decision, then mirrors the completion onto the local task
// row. The case itself is not touched here; the engine calls back with
// the resulting task event.
func (s *TaskService) ProcessTaskUpdate(ctx context.Context, actor, txnID, rawDecision, comment string) error {
	decision := parseDecisionToken(rawDecision)

	process, err := s.repos.Processes.GetByTxnID(ctx, txnID)
	if err != nil {
		return err
	}

	tasks, err := s.wf.PendingTasks(ctx, process.InstanceID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return errorutil.NewConflict("no pending workflow task for case", map[string]any{"txn_id": txnID})
	}
	task := tasks[0]

	taskContext := map[string]any{
		"decision":  string(decision),
		"processor": actor,
	}
	if comment != "" {
		taskContext["comment"] = comment
	}
	if err := s.wf.CompleteTask(ctx, task.ID, taskContext); err != nil {
		return err
	}

	taskType := parseTaskTypeToken(task.ActivityID)
	now := s.now()
	return s.store.InTx(ctx, func(r repository.Repos) error {
		c, err := r.Cases.GetByTxnID(ctx, txnID)
		if err != nil {
			return err
		}
		return s.completeLocalTask(ctx, r, c, task.ID, taskType, decision, actor, actor, now)
	})
}

// resolveTaskInstance returns the engine task instance the event refers
// to, discovering it from the engine's pending list when the callback
// did not carry one.
func (s *TaskService) resolveTaskInstance(ctx context.Context, r repository.Repos, c *domain.CaseRequest, input TaskEventInput, taskType domain.TaskType) (string, error) {
	if input.InstanceID != "" {
		return input.InstanceID, nil
	}

	process, err := r.Processes.GetByTxnID(ctx, c.TxnID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.NewString(), nil
		}
		return "", err
	}

	tasks, err := s.wf.PendingTasks(ctx, process.InstanceID)
	if err != nil {
		s.logger.Warn("pending task discovery failed; recording synthetic task",
			zap.String("txn_id", c.TxnID), zap.Error(err))
		return uuid.NewString(), nil
	}
	for _, task := range tasks {
		if parseTaskTypeToken(task.ActivityID) == taskType {
			return task.ID, nil
		}
	}
	return uuid.NewString(), nil
}

// completeLocalTask upserts the task row as COMPLETED with the decision
// that closed it.
func (s *TaskService) completeLocalTask(ctx context.Context, r repository.Repos, c *domain.CaseRequest, instanceID string, taskType domain.TaskType, decision domain.Decision, processor, actor string, now time.Time) error {
	var processorPtr *string
	if processor != "" {
		processorPtr = &processor
	}

	task, err := r.Tasks.GetByInstanceID(ctx, instanceID)
	if errors.Is(err, pgx.ErrNoRows) {
		task = &domain.TaskInstance{
			InstanceID: instanceID,
			TxnID:      c.TxnID,
			TaskType:   taskType,
			Status:     domain.TaskStatusReady,
			CreatedBy:  actor,
			UpdatedBy:  actor,
		}
		if err := r.Tasks.Create(ctx, task); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	task.Status = domain.TaskStatusCompleted
	task.Decision = &decision
	task.Processor = processorPtr
	task.CompletedAt = &now
	task.UpdatedBy = actor
	return r.Tasks.Update(ctx, task)
}

func (s *TaskService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// parseDecisionToken normalizes a decision token; unrecognized values
// pass through upper-cased so the transition table can park them in ERR.
func parseDecisionToken(raw string) domain.Decision {
	if d, ok := domain.ParseDecision(raw); ok {
		return d
	}
	return domain.Decision(strings.ToUpper(strings.TrimSpace(raw)))
}

func parseTaskTypeToken(raw string) domain.TaskType {
	if t, ok := domain.ParseTaskType(raw); ok {
		return t
	}
	return domain.TaskType(strings.ToUpper(strings.TrimSpace(raw)))
}

func isTerminal(status domain.Status) bool {
	switch status {
	case domain.StatusResolved, domain.StatusClosed:
		return true
	}
	return false
}
