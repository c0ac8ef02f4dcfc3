package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/reshetovitsme/autopost/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

//go:generate mockgen -source=service.go -destination=../../../test/mocks/message_mocks.go -package=mocks

// Transport is the chat backend. Updates delivers every inbound message in arrival order
// and is closed when the transport stops.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, buttons [][]domain.Button) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string) error
	Acknowledge(ctx context.Context, callbackID, text string) error
	Updates() <-chan *domain.Message
}

// Service is the messaging channel used by the trigger gate and the remote presenter.
// Only messages from the configured chat and allowed users are surfaced.
type Service struct {
	transport    Transport
	chatID       int64
	allowedUsers []int64
	logger       *slog.Logger
}

// New creates a new message service
func New(transport Transport, chatID int64, allowedUsers []int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		transport:    transport,
		chatID:       chatID,
		allowedUsers: allowedUsers,
		logger:       logger,
	}
}

// Send posts a message to the configured chat and returns its id
func (s *Service) Send(ctx context.Context, text string, buttons [][]domain.Button) (int, error) {
	id, err := s.transport.Send(ctx, s.chatID, text, buttons)
	if err != nil {
		return 0, apperrors.ChannelFailure(oops.With("chat_id", s.chatID, "context", "failed to send message").Wrap(err))
	}
	return id, nil
}

// Notify posts plain text, split over several messages when it is too long for one
func (s *Service) Notify(ctx context.Context, text string) error {
	for _, chunk := range domain.SplitText(text, domain.MaxTextRunes) {
		if _, err := s.Send(ctx, chunk, nil); err != nil {
			return err
		}
	}
	return nil
}

// Edit replaces the text of a message sent earlier, removing its buttons
func (s *Service) Edit(ctx context.Context, messageID int, text string) error {
	if err := s.transport.Edit(ctx, s.chatID, messageID, text); err != nil {
		return apperrors.ChannelFailure(oops.With("chat_id", s.chatID, "message_id", messageID).Wrap(err))
	}
	return nil
}

// Acknowledge answers a button press so the client stops its spinner
func (s *Service) Acknowledge(ctx context.Context, callbackID, text string) error {
	if err := s.transport.Acknowledge(ctx, callbackID, text); err != nil {
		return apperrors.ChannelFailure(oops.With("callback_id", callbackID).Wrap(err))
	}
	return nil
}

// AwaitNextMessage blocks until an authorized message arrives. A zero timeout waits forever.
// Expiry returns apperrors.ErrTimeout; a closed transport is a channel failure.
func (s *Service) AwaitNextMessage(ctx context.Context, timeout time.Duration) (*domain.Message, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	updates := s.transport.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-expired:
			return nil, oops.With("timeout", timeout.String()).Wrap(apperrors.ErrTimeout)
		case msg, ok := <-updates:
			if !ok {
				return nil, apperrors.ChannelFailure(oops.Errorf("message transport closed"))
			}
			if !s.IsAuthorized(msg) {
				s.logger.Debug("Ignoring message from unauthorized sender",
					"chat_id", msg.ChatID,
					"user_id", msg.UserID)
				continue
			}
			return msg, nil
		}
	}
}

// IsAuthorized checks that a message comes from the configured chat and an allowed user
func (s *Service) IsAuthorized(msg *domain.Message) bool {
	if msg == nil {
		return false
	}
	if s.chatID != 0 && msg.ChatID != s.chatID {
		return false
	}
	if len(s.allowedUsers) == 0 {
		return true // No restrictions
	}
	return lo.Contains(s.allowedUsers, msg.UserID)
}
