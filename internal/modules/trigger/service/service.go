package service

import (
	"context"
	"log/slog"
	"time"

	messageDomain "github.com/reshetovitsme/autopost/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/oops"
)

// Inbox is the part of the messaging channel the gate needs.
type Inbox interface {
	Send(ctx context.Context, text string, buttons [][]messageDomain.Button) (int, error)
	AwaitNextMessage(ctx context.Context, timeout time.Duration) (*messageDomain.Message, error)
}

// Gate holds a run back until an exact trigger phrase arrives on the channel.
type Gate struct {
	inbox  Inbox
	logger *slog.Logger
}

// New creates a trigger gate
func New(inbox Inbox, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		inbox:  inbox,
		logger: logger,
	}
}

// AwaitTrigger blocks until a text message equal to expected arrives. The comparison is
// case-sensitive and covers the whole message. Everything else is discarded. There is
// no timeout; cancel ctx to stop waiting.
func (g *Gate) AwaitTrigger(ctx context.Context, expected string) error {
	g.logger.Info("Waiting for trigger message", "trigger", expected)

	discarded := 0
	for {
		msg, err := g.inbox.AwaitNextMessage(ctx, 0)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return apperrors.ChannelFailure(oops.With("trigger", expected, "discarded", discarded).Wrap(err))
		}

		if msg.IsCallback() || msg.Text != expected {
			discarded++
			continue
		}

		g.logger.Info("Trigger received", "user_id", msg.UserID, "discarded", discarded)
		if _, err := g.inbox.Send(ctx, "🚀 Trigger received, starting workflow", nil); err != nil {
			g.logger.Warn("Failed to acknowledge trigger", "error", err)
		}
		return nil
	}
}
