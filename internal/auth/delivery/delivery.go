// Package delivery sends one-time codes to users out of band.
package delivery

import (
	"context"
	"errors"
	"log/slog"
)

// KindLoginCode marks a login one-time code.
const KindLoginCode = "login_code"

// ErrUnverifiedDestination is returned when the provider refuses a number it
// has not verified, which is what trial accounts do.
var ErrUnverifiedDestination = errors.New("delivery: destination not verified with provider")

// Message describes an outbound notification.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Sender delivers a message. Implementations must not retry; the caller
// decides what a failure means.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the logger instead of sending them. Only for
// local development: the body contains the code.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.InfoContext(ctx, "delivery",
		"kind", msg.Kind,
		"destination", msg.Destination,
		"body", msg.Body,
	)
	return nil
}
