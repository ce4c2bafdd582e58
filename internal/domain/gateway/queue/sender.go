package queue

import "context"

type Sender interface {
	SendMessage(ctx context.Context, queueName string, body any) error
}

// NoopSender drops every message. It is used when task events are disabled.
type NoopSender struct{}

var _ Sender = NoopSender{}

func (NoopSender) SendMessage(context.Context, string, any) error {
	return nil
}
