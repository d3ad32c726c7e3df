package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

func newTestClient(baseURL string) Client {
	return NewClient(config.WorkflowConfig{
		BaseURL:      baseURL,
		APIToken:     "test-token",
		DefinitionID: "te-service-request",
	})
}

func TestStartInstanceSendsDefinitionAndContext(t *testing.T) {
	var got StartRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/workflow-instances", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Instance{ID: "inst-42", Status: "RUNNING"})
	}))
	defer server.Close()

	instance, err := newTestClient(server.URL).StartInstance(context.Background(), map[string]any{
		"txnId": "txn-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "inst-42", instance.ID)
	assert.Equal(t, "te-service-request", got.DefinitionID)
	assert.Equal(t, "txn-1", got.Context["txnId"])
}

func TestStartInstanceUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"engine overloaded"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).StartInstance(context.Background(), nil)
	require.Error(t, err)

	var upstream *errorutil.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "workflow-engine", upstream.System)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "engine overloaded")
}

func TestPendingTasksQueriesReadyState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/task-instances", r.URL.Path)
		assert.Equal(t, "inst-42", r.URL.Query().Get("workflowInstanceId"))
		assert.Equal(t, "READY", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode([]Task{
			{ID: "task-1", ActivityID: "TE_RESO_TEAM", Status: "READY"},
		})
	}))
	defer server.Close()

	tasks, err := newTestClient(server.URL).PendingTasks(context.Background(), "inst-42")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "TE_RESO_TEAM", tasks[0].ActivityID)
}

func TestCompleteTaskPatchesStatus(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/task-instances/task-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).CompleteTask(context.Background(), "task-1", map[string]any{
		"decision": "APR",
	})
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", got["status"])
	taskContext, ok := got["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "APR", taskContext["decision"])
}
