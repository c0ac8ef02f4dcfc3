package domain

import (
	"time"
	"unicode/utf8"
)

// Target identifies what a draft is written for: a platform post or a reply to a post.
type Target struct {
	Kind      TargetKind `json:"kind"`
	ID        string     `json:"id"`
	Platform  string     `json:"platform"`
	CharLimit int        `json:"char_limit,omitempty"`
	// Context is the plain text of the post being replied to.
	Context string `json:"context,omitempty"`
}

// PlatformTarget builds the target for a top-level post on a platform.
func PlatformTarget(platform string, limit int) Target {
	return Target{
		Kind:      TargetKindPlatform,
		ID:        platform,
		Platform:  platform,
		CharLimit: limit,
	}
}

// ReplyTarget builds the target for a reply to an existing post.
func ReplyTarget(post *Post, platform string, limit int) Target {
	return Target{
		Kind:      TargetKindReply,
		ID:        post.ID,
		Platform:  platform,
		CharLimit: limit,
		Context:   post.Text,
	}
}

// Image is a generated picture attached to a publish call.
type Image struct {
	Data      []byte `json:"-"`
	MediaType string `json:"media_type"`
	Prompt    string `json:"prompt"`
}

// Draft is one candidate piece of content for one target.
type Draft struct {
	Target        Target      `json:"target"`
	Text          string      `json:"text"`
	OverLimit     bool        `json:"over_limit"`
	Image         *Image      `json:"image,omitempty"`
	Status        DraftStatus `json:"status"`
	Regenerations int         `json:"regenerations"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// NewDraft creates a pending draft and flags it when the text exceeds the target's limit.
func NewDraft(target Target, text string) *Draft {
	d := &Draft{
		Target:      target,
		Status:      DraftStatusPending,
		GeneratedAt: time.Now(),
	}
	d.SetText(text)
	return d
}

// SetText replaces the draft text and recomputes the over-limit flag.
func (d *Draft) SetText(text string) {
	d.Text = text
	d.OverLimit = d.Target.CharLimit > 0 && d.Length() > d.Target.CharLimit
}

// Length counts characters as runes, which is how the networks count them.
func (d *Draft) Length() int {
	return utf8.RuneCountInString(d.Text)
}

func (d *Draft) IsReply() bool {
	return d.Target.Kind == TargetKindReply
}
