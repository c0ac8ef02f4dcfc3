package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	messageDomain "github.com/reshetovitsme/autopost/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
)

const (
	callbackPrefix = "approval:"

	publishAll    = "publish_all"
	cancelPublish = "cancel"

	// statusReserve leaves room in the last chunk for the status line added on edit.
	statusReserve = 64
)

// Chat is the messaging channel the remote presenter talks through.
type Chat interface {
	Send(ctx context.Context, text string, buttons [][]messageDomain.Button) (int, error)
	Edit(ctx context.Context, messageID int, text string) error
	Acknowledge(ctx context.Context, callbackID, text string) error
	AwaitNextMessage(ctx context.Context, timeout time.Duration) (*messageDomain.Message, error)
}

// ChatPresenter sends each draft to a chat with decision buttons and waits for a press
// on that message. Every other inbound message is ignored while it waits.
type ChatPresenter struct {
	chat    Chat
	timeout time.Duration
	logger  *slog.Logger
}

// NewChatPresenter creates a remote presenter. A zero timeout waits forever; on expiry
// the review is aborted.
func NewChatPresenter(chat Chat, timeout time.Duration, logger *slog.Logger) *ChatPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatPresenter{
		chat:    chat,
		timeout: timeout,
		logger:  logger,
	}
}

var decisionButtons = [][]messageDomain.Button{
	{
		{Text: "✅ Accept", Data: callbackPrefix + domain.DecisionAccept.String()},
		{Text: "🔄 Regenerate", Data: callbackPrefix + domain.DecisionRegenerate.String()},
	},
	{
		{Text: "❌ Reject", Data: callbackPrefix + domain.DecisionReject.String()},
		{Text: "🛑 Abort all", Data: callbackPrefix + domain.DecisionAbortAll.String()},
	},
}

func (p *ChatPresenter) Present(ctx context.Context, draft *contentDomain.Draft) (domain.Decision, error) {
	messageID, body, err := p.send(ctx, RenderDraft(draft), decisionButtons)
	if err != nil {
		return "", err
	}
	deadline := p.deadline()

	for {
		msg, err := p.awaitPress(ctx, messageID, deadline)
		if err != nil {
			return "", err
		}
		if msg == nil {
			return p.expire(ctx, messageID, body), nil
		}

		decision, err := domain.ParseDecision(strings.TrimPrefix(msg.CallbackData, callbackPrefix))
		if err != nil {
			p.acknowledge(ctx, msg.CallbackID, "Unknown action")
			continue
		}

		p.acknowledge(ctx, msg.CallbackID, decisionLabel(decision))
		p.mark(ctx, messageID, body, "➡️ "+decisionLabel(decision))
		return decision, nil
	}
}

var confirmButtons = [][]messageDomain.Button{
	{
		{Text: "🚀 Publish all", Data: callbackPrefix + publishAll},
		{Text: "✖️ Cancel", Data: callbackPrefix + cancelPublish},
	},
}

// ConfirmPublish asks for a last go-ahead over the accepted drafts. Cancel and timeout
// both return false.
func (p *ChatPresenter) ConfirmPublish(ctx context.Context, drafts []*contentDomain.Draft) (bool, error) {
	messageID, body, err := p.send(ctx, renderConfirmation(drafts), confirmButtons)
	if err != nil {
		return false, err
	}
	deadline := p.deadline()

	for {
		msg, err := p.awaitPress(ctx, messageID, deadline)
		if err != nil {
			return false, err
		}
		if msg == nil {
			p.expire(ctx, messageID, body)
			return false, nil
		}

		switch strings.TrimPrefix(msg.CallbackData, callbackPrefix) {
		case publishAll:
			p.acknowledge(ctx, msg.CallbackID, "Publishing")
			p.mark(ctx, messageID, body, "🚀 Publishing")
			return true, nil
		case cancelPublish:
			p.acknowledge(ctx, msg.CallbackID, "Cancelled")
			p.mark(ctx, messageID, body, "✖️ Cancelled, nothing published")
			return false, nil
		default:
			p.acknowledge(ctx, msg.CallbackID, "Unknown action")
		}
	}
}

// send delivers text in as many messages as needed. Buttons go on the last one, whose
// id and text are returned for callbacks and edits.
func (p *ChatPresenter) send(ctx context.Context, text string, buttons [][]messageDomain.Button) (int, string, error) {
	chunks := messageDomain.SplitText(text, messageDomain.MaxTextRunes-statusReserve)
	for _, chunk := range chunks[:len(chunks)-1] {
		if _, err := p.chat.Send(ctx, chunk, nil); err != nil {
			return 0, "", err
		}
	}

	last := chunks[len(chunks)-1]
	messageID, err := p.chat.Send(ctx, last, buttons)
	if err != nil {
		return 0, "", err
	}
	return messageID, last, nil
}

func (p *ChatPresenter) deadline() time.Time {
	if p.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(p.timeout)
}

// awaitPress returns the next button press on messageID. A nil message means the
// deadline passed.
func (p *ChatPresenter) awaitPress(ctx context.Context, messageID int, deadline time.Time) (*messageDomain.Message, error) {
	for {
		var wait time.Duration
		if !deadline.IsZero() {
			wait = time.Until(deadline)
			if wait <= 0 {
				return nil, nil
			}
		}

		msg, err := p.chat.AwaitNextMessage(ctx, wait)
		if err != nil {
			if errors.Is(err, apperrors.ErrTimeout) {
				return nil, nil
			}
			return nil, err
		}

		if !msg.IsCallback() || msg.ReplyToMessageID != messageID {
			p.logger.Debug("Ignoring message while waiting for review", "message_id", msg.ID, "kind", msg.Kind)
			continue
		}
		return msg, nil
	}
}

func (p *ChatPresenter) mark(ctx context.Context, messageID int, body, status string) {
	if err := p.chat.Edit(ctx, messageID, body+"\n\n"+status); err != nil {
		p.logger.Warn("Failed to update review message", "error", err, "message_id", messageID)
	}
}

func (p *ChatPresenter) expire(ctx context.Context, messageID int, body string) domain.Decision {
	p.logger.Warn("Review timed out, aborting", "timeout", p.timeout, "message_id", messageID)
	p.mark(ctx, messageID, body, "⏱ Timed out, review aborted")
	return domain.DecisionAbortAll
}

func (p *ChatPresenter) acknowledge(ctx context.Context, callbackID, text string) {
	if err := p.chat.Acknowledge(ctx, callbackID, text); err != nil {
		p.logger.Warn("Failed to acknowledge button press", "error", err, "callback_id", callbackID)
	}
}

// RenderDraft formats a draft for review: target, length against limit, warning and text.
func RenderDraft(draft *contentDomain.Draft) string {
	var sb strings.Builder

	if draft.IsReply() {
		sb.WriteString(fmt.Sprintf("💬 Reply on %s to post %s\n", draft.Target.Platform, draft.Target.ID))
		if draft.Target.Context != "" {
			sb.WriteString("> " + strings.ReplaceAll(draft.Target.Context, "\n", "\n> ") + "\n")
		}
	} else {
		sb.WriteString(fmt.Sprintf("📝 %s post\n", draft.Target.Platform))
	}

	if draft.Target.CharLimit > 0 {
		sb.WriteString(fmt.Sprintf("Length: %d/%d", draft.Length(), draft.Target.CharLimit))
	} else {
		sb.WriteString(fmt.Sprintf("Length: %d", draft.Length()))
	}
	if draft.Regenerations > 0 {
		sb.WriteString(fmt.Sprintf(" · regenerated %d×", draft.Regenerations))
	}
	sb.WriteString("\n")
	if draft.OverLimit {
		sb.WriteString("⚠️ Over the character limit\n")
	}

	sb.WriteString("\n")
	sb.WriteString(draft.Text)
	return sb.String()
}

func renderConfirmation(drafts []*contentDomain.Draft) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 Ready to publish %d draft(s):\n", len(drafts)))
	for _, draft := range drafts {
		if draft.IsReply() {
			sb.WriteString(fmt.Sprintf("• reply on %s to post %s (%d chars)\n", draft.Target.Platform, draft.Target.ID, draft.Length()))
		} else {
			sb.WriteString(fmt.Sprintf("• %s post (%d chars)\n", draft.Target.Platform, draft.Length()))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func decisionLabel(d domain.Decision) string {
	switch d {
	case domain.DecisionAccept:
		return "Accepted"
	case domain.DecisionRegenerate:
		return "Regenerating"
	case domain.DecisionReject:
		return "Rejected"
	case domain.DecisionAbortAll:
		return "Aborted"
	}
	return d.String()
}
