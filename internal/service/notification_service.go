package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/integration/mail"
)

// NotificationService turns domain events into operator mail alerts and
// audit log lines. Mail failures are logged, never propagated.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Client
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Client, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCaseCreated, n.handleCaseCreated)
	n.dispatcher.Subscribe(events.EventCaseSubmitted, n.handleCaseCreated)
	n.dispatcher.Subscribe(events.EventCaseStatusChanged, n.handleCaseStatusChanged)
	n.dispatcher.Subscribe(events.EventCaseClosed, n.handleCaseStatusChanged)
	n.dispatcher.Subscribe(events.EventWorkflowOutOfSync, n.handleWorkflowAlert)
	n.dispatcher.Subscribe(events.EventWorkflowFault, n.handleWorkflowAlert)
}

func (n *NotificationService) handleCaseCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("case lifecycle event",
		zap.String("type", string(event.Type)),
		zap.String("txn_id", event.TxnID),
		zap.String("case_id", event.CaseID))
	return nil
}

func (n *NotificationService) handleCaseStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("case status event",
		zap.String("type", string(event.Type)),
		zap.String("txn_id", event.TxnID),
		zap.String("case_id", event.CaseID),
		zap.Any("payload", event.Payload))
	return nil
}

// handleWorkflowAlert mails operators about engine desync or faults;
// these need a human eye because there is no automatic compensation.
func (n *NotificationService) handleWorkflowAlert(ctx context.Context, event events.Event) error {
	n.logger.Error("workflow alert",
		zap.String("type", string(event.Type)),
		zap.String("txn_id", event.TxnID),
		zap.Any("payload", event.Payload))

	if n.mailer == nil || len(n.cfg.AlertRecipients) == 0 {
		return nil
	}
	msg := mail.Message{
		To:      n.cfg.AlertRecipients,
		Subject: fmt.Sprintf("[case-service] %s for case %s", event.Type, event.TxnID),
		Body:    fmt.Sprintf("Event: %s\nTxn: %s\nPayload: %+v\n", event.Type, event.TxnID, event.Payload),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Warn("alert mail delivery failed", zap.Error(err))
	}
	return nil
}
