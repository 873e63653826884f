// Package notify is the boundary to the message-dispatch collaborator. The
// pipeline informs it after the fact and never depends on the outcome; real
// delivery (WhatsApp templates) lives outside this repository.
package notify

import (
	"context"
	"log/slog"
)

// TemplateAssemblyScheduled is sent once a batch's assembly schedule
// reaches Scheduled with a firm date.
const TemplateAssemblyScheduled = "assembly_scheduled"

// Message is one templated notification.
type Message struct {
	ClientPhone string            `json:"client_phone"`
	TemplateKey string            `json:"template_key"`
	Variables   map[string]string `json:"variables,omitempty"`
}

// Notifier dispatches messages. Implementations must be safe to call from
// multiple goroutines.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier records dispatches on the log and does nothing else. It is
// the default wiring when no gateway is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the dispatch.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	if n.logger != nil {
		n.logger.Info("notification dispatched", "template", msg.TemplateKey, "phone", msg.ClientPhone)
	}
	return nil
}
