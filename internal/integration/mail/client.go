package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

const upstreamName = "mail-api"

// Attachment is one file carried by a message; content is base64.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
}

// Message is one outbound notification.
type Message struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	CC          []string     `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	HTML        bool         `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Client sends notification mail through the outbound mail API.
// Callers treat delivery as best effort; failures are logged, never
// surfaced to the requester.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

type client struct {
	baseURL    string
	from       string
	httpClient *http.Client
}

// NewClient builds a mail client from configuration.
func NewClient(cfg config.MailConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		baseURL:    cfg.BaseURL,
		from:       cfg.From,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.from
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorutil.NewUpstreamError(upstreamName, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return errorutil.NewUpstreamError(upstreamName, resp.StatusCode, string(raw), nil)
	}
	return nil
}
