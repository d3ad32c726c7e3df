package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

const upstreamName = "workflow-engine"

// Instance is a workflow instance as reported by the engine.
type Instance struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definitionId"`
	Status       string `json:"status"`
	Subject      string `json:"subject"`
}

// Task is one user task inside a workflow instance. ActivityID carries
// the approval-stage identifier the case rules key on.
type Task struct {
	ID         string `json:"id"`
	ActivityID string `json:"activityId"`
	Status     string `json:"status"`
	Subject    string `json:"subject"`
	Processor  string `json:"processor"`
}

// StartRequest triggers a new workflow instance.
type StartRequest struct {
	DefinitionID string         `json:"definitionId"`
	Context      map[string]any `json:"context"`
}

// Client talks to the external workflow engine.
type Client interface {
	StartInstance(ctx context.Context, wfContext map[string]any) (*Instance, error)
	PendingTasks(ctx context.Context, instanceID string) ([]Task, error)
	CompleteTask(ctx context.Context, taskID string, taskContext map[string]any) error
}

type client struct {
	baseURL      string
	apiToken     string
	definitionID string
	httpClient   *http.Client
}

// NewClient builds a workflow engine client from configuration.
func NewClient(cfg config.WorkflowConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		baseURL:      cfg.BaseURL,
		apiToken:     cfg.APIToken,
		definitionID: cfg.DefinitionID,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// StartInstance creates a workflow instance for the configured
// definition with the given business context.
func (c *client) StartInstance(ctx context.Context, wfContext map[string]any) (*Instance, error) {
	payload := StartRequest{DefinitionID: c.definitionID, Context: wfContext}
	var instance Instance
	if err := c.do(ctx, http.MethodPost, "/v1/workflow-instances", payload, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// PendingTasks lists the READY user tasks of an instance.
func (c *client) PendingTasks(ctx context.Context, instanceID string) ([]Task, error) {
	path := fmt.Sprintf("/v1/task-instances?workflowInstanceId=%s&status=READY", instanceID)
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompleteTask marks an engine task COMPLETED, passing the decision
// context the next stage branches on.
func (c *client) CompleteTask(ctx context.Context, taskID string, taskContext map[string]any) error {
	payload := map[string]any{
		"status":  "COMPLETED",
		"context": taskContext,
	}
	return c.do(ctx, http.MethodPatch, "/v1/task-instances/"+taskID, payload, nil)
}

func (c *client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorutil.NewUpstreamError(upstreamName, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorutil.NewUpstreamError(upstreamName, resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorutil.NewUpstreamError(upstreamName, resp.StatusCode, string(raw), nil)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errorutil.NewUpstreamError(upstreamName, resp.StatusCode, string(raw), err)
		}
	}
	return nil
}
