package identity

import (
	"context"

	"github.com/tensillabs/teamspace/internal/logging"
)

// Notifier delivers one-time codes to users. Delivery is best-effort: the
// identity service dispatches asynchronously, logs failures, and never
// fails the originating operation because a message could not be sent.
type Notifier interface {
	VerificationCode(ctx context.Context, email, name, code string) error
	PasswordResetCode(ctx context.Context, email, code string) error
}

// LogNotifier writes would-be messages to the log. It stands in for a real
// mail sender in development and self-hosted installs without SMTP.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) VerificationCode(ctx context.Context, email, name, code string) error {
	n.logger.Info(ctx, "verification code issued", "email", email, "name", name, "code", code)
	return nil
}

func (n *LogNotifier) PasswordResetCode(ctx context.Context, email, code string) error {
	n.logger.Info(ctx, "password reset code issued", "email", email, "code", code)
	return nil
}
