package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/integration/workflow"
)

func newTaskFixture(t *testing.T) (*TaskService, *memStore, *fakeWorkflow, *recordingDispatcher) {
	t.Helper()
	store := newMemStore()
	wf := &fakeWorkflow{}
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(TaskDependencies{
		Store:      store,
		Repos:      store.repos,
		Workflow:   wf,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return time.Date(2025, 3, 12, 14, 30, 0, 0, testLoc) },
	})
	return svc, store, wf, dispatcher
}

func seedPendingCase(t *testing.T, store *memStore) *domain.CaseRequest {
	t.Helper()
	ctx := context.Background()
	caseID := "CASE202503TE00007"
	c := &domain.CaseRequest{
		TxnID:          "11111111-2222-3333-4444-555555555555",
		RequestType:    domain.RequestTypeTE,
		CaseID:         &caseID,
		Status:         domain.StatusPendingResolutionTeam,
		CategoryCode:   "FLT",
		EntityCode:     "SG01",
		RequesterEmail: "alice@example.com",
		Language:       "en",
		CreatedBy:      "alice@example.com",
		UpdatedBy:      "alice@example.com",
	}
	require.NoError(t, store.repos.Cases.Create(ctx, c))
	require.NoError(t, store.repos.Processes.Create(ctx, &domain.WorkflowProcess{
		InstanceID: "wf-instance-7",
		TxnID:      c.TxnID,
		CaseID:     c.CaseID,
		Status:     domain.WorkflowStatusRunning,
		CreatedBy:  "alice@example.com",
		UpdatedBy:  "alice@example.com",
	}))
	return c
}

func TestHandleTaskEventApproveResolvesCase(t *testing.T) {
	svc, store, _, dispatcher := newTaskFixture(t)
	seeded := seedPendingCase(t, store)
	ctx := context.Background()

	updated, err := svc.HandleTaskEvent(ctx, "system", TaskEventInput{
		TxnID:      seeded.TxnID,
		InstanceID: "task-1",
		TaskType:   "TE_RESO_TEAM",
		Decision:   "approve",
		Processor:  "bob@example.com",
		Comment:    "done",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.Processor)
	assert.Equal(t, "bob@example.com", *updated.Processor)

	task, err := store.repos.Tasks.GetByInstanceID(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.Decision)
	assert.Equal(t, domain.DecisionApprove, *task.Decision)

	process, err := store.repos.Processes.GetByTxnID(ctx, seeded.TxnID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStatusCompleted, process.Status)

	comments, err := store.repos.Comments.ListByTxnID(ctx, seeded.TxnID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.EventRequestResolved, comments[0].Meta.Event)
	assert.Equal(t, domain.UserTypeResolutionTeam, comments[0].Meta.UserType)

	closed := dispatcher.byType(events.EventCaseClosed)
	require.Len(t, closed, 1)
	payload, ok := closed[0].Payload.(events.CaseStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPendingResolutionTeam, payload.OldStatus)
	assert.Equal(t, domain.StatusResolved, payload.NewStatus)
}

func TestHandleTaskEventRejectAsksForClarification(t *testing.T) {
	svc, store, _, dispatcher := newTaskFixture(t)
	seeded := seedPendingCase(t, store)

	updated, err := svc.HandleTaskEvent(context.Background(), "system", TaskEventInput{
		TxnID:      seeded.TxnID,
		InstanceID: "task-2",
		TaskType:   "TE_RESO_TEAM",
		Decision:   "REJ",
		Processor:  "bob@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClarificationRequired, updated.Status)
	require.NotNil(t, updated.ClarifiedAt)

	process, err := store.repos.Processes.GetByTxnID(context.Background(), seeded.TxnID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStatusRunning, process.Status)

	assert.Len(t, dispatcher.byType(events.EventCaseStatusChanged), 1)
	assert.Empty(t, dispatcher.byType(events.EventCaseClosed))
}

func TestHandleTaskEventEscalateMovesToLead(t *testing.T) {
	svc, store, _, _ := newTaskFixture(t)
	seeded := seedPendingCase(t, store)

	updated, err := svc.HandleTaskEvent(context.Background(), "system", TaskEventInput{
		TxnID:      seeded.TxnID,
		InstanceID: "task-3",
		TaskType:   "TE_RESO_TEAM",
		Decision:   "ESL",
		Processor:  "bob@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingResolutionLead, updated.Status)
	require.NotNil(t, updated.EscalatedAt)
}

func TestHandleTaskEventUnknownDecisionParksInError(t *testing.T) {
	svc, store, _, _ := newTaskFixture(t)
	seeded := seedPendingCase(t, store)

	updated, err := svc.HandleTaskEvent(context.Background(), "system", TaskEventInput{
		TxnID:      seeded.TxnID,
		InstanceID: "task-4",
		TaskType:   "TE_RESO_TEAM",
		Decision:   "shrug",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, updated.Status)

	// ERR is not terminal; the workflow process stays open.
	process, err := store.repos.Processes.GetByTxnID(context.Background(), seeded.TxnID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStatusRunning, process.Status)
}

func TestHandleTaskEventRequiresTxnID(t *testing.T) {
	svc, _, _, _ := newTaskFixture(t)

	_, err := svc.HandleTaskEvent(context.Background(), "system", TaskEventInput{
		Decision: "APR",
	})
	require.Error(t, err)
}

func TestHandleTaskEventDiscoversInstanceFromEngine(t *testing.T) {
	svc, store, wf, _ := newTaskFixture(t)
	seeded := seedPendingCase(t, store)
	wf.pending = []workflow.Task{
		{ID: "engine-task-9", ActivityID: "TE_RESO_TEAM", Status: "READY"},
	}

	_, err := svc.HandleTaskEvent(context.Background(), "system", TaskEventInput{
		TxnID:     seeded.TxnID,
		TaskType:  "TE_RESO_TEAM",
		Decision:  "APR",
		Processor: "bob@example.com",
	})
	require.NoError(t, err)

	task, err := store.repos.Tasks.GetByInstanceID(context.Background(), "engine-task-9")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
}

func TestProcessTaskUpdateCompletesEngineTask(t *testing.T) {
	svc, store, wf, _ := newTaskFixture(t)
	seeded := seedPendingCase(t, store)
	wf.pending = []workflow.Task{
		{ID: "engine-task-5", ActivityID: "TE_RESO_TEAM", Status: "READY"},
	}

	err := svc.ProcessTaskUpdate(context.Background(), "bob@example.com", seeded.TxnID, "approve", "resolved offline")
	require.NoError(t, err)

	require.Len(t, wf.completed, 1)
	assert.Equal(t, "engine-task-5", wf.completed[0])

	task, err := store.repos.Tasks.GetByInstanceID(context.Background(), "engine-task-5")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)

	// The case only moves once the engine calls back.
	c, err := store.repos.Cases.GetByTxnID(context.Background(), seeded.TxnID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingResolutionTeam, c.Status)
}

func TestProcessTaskUpdateNoPendingTask(t *testing.T) {
	svc, store, _, _ := newTaskFixture(t)
	seeded := seedPendingCase(t, store)

	err := svc.ProcessTaskUpdate(context.Background(), "bob@example.com", seeded.TxnID, "approve", "")
	require.Error(t, err)
}
