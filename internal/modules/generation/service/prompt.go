package service

import (
	"fmt"
	"strings"

	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/generation/repository"
)

const (
	postStart = "<POST_START>"
	postEnd   = "<POST_END>"
)

var platformStyles = map[string]string{
	"twitter":   "Write a Twitter/X post (engaging and concise)",
	"linkedin":  "Write a LinkedIn post (professional, longer-form, engaging)",
	"instagram": "Write an Instagram caption (visual-friendly, engaging, use emojis sparingly)",
	"facebook":  "Write a Facebook post (friendly, engaging, conversational)",
	"mastodon":  "Write a Mastodon post (similar to Twitter but longer, engaging and community-focused)",
}

const generalStyle = "Write a social media post (engaging and well-structured)"

const systemPrompt = "You write social media copy from product descriptions. Answer with the post only."

func platformStyle(platform string) string {
	if style, ok := platformStyles[strings.ToLower(platform)]; ok {
		return style
	}
	return generalStyle
}

func postPrompt(source string, target domain.Target, tone string) repository.CompletionRequest {
	var sb strings.Builder
	sb.WriteString("Based on the following product description, generate a social media post.\n\n")
	sb.WriteString("Product Description:\n")
	sb.WriteString(source)
	sb.WriteString("\n\nRequirements:\n")
	sb.WriteString(fmt.Sprintf("- Platform: %s\n", platformStyle(target.Platform)))
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", tone))
	if target.CharLimit > 0 {
		sb.WriteString(fmt.Sprintf("- Maximum length: %d characters\n", target.CharLimit))
	}
	sb.WriteString("- Make it engaging and compelling\n")
	sb.WriteString("- Include a clear call-to-action\n")
	sb.WriteString("- Use hashtags where the platform expects them\n")
	sb.WriteString("- Keep it authentic and natural\n\n")
	sb.WriteString("IMPORTANT: Place your generated post content between XML-style tags, like this:\n\n")
	sb.WriteString(postStart + "\n[Your post content here]\n" + postEnd + "\n\n")
	sb.WriteString("Generate the social media post:")

	return repository.CompletionRequest{System: systemPrompt, User: sb.String()}
}

func replyPrompt(source string, target domain.Target, tone string) repository.CompletionRequest {
	var sb strings.Builder
	sb.WriteString("Write a reply to the following post on ")
	sb.WriteString(target.Platform)
	sb.WriteString(". Relate it to our product where it fits naturally, without being pushy.\n\n")
	sb.WriteString("Original Post:\n")
	sb.WriteString(target.Context)
	sb.WriteString("\n\nProduct Description:\n")
	sb.WriteString(source)
	sb.WriteString("\n\nRequirements:\n")
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", tone))
	if target.CharLimit > 0 {
		sb.WriteString(fmt.Sprintf("- Maximum length: %d characters\n", target.CharLimit))
	}
	sb.WriteString("- Respond to what the author actually said\n\n")
	sb.WriteString("IMPORTANT: Place your reply between " + postStart + " and " + postEnd + " tags.\n\n")
	sb.WriteString("Generate the reply:")

	return repository.CompletionRequest{System: systemPrompt, User: sb.String()}
}

// batchSchema constrains a batch answer to one reply per target id.
var batchSchema = &repository.Schema{
	Name: "replies",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"replies"},
		"properties": map[string]any{
			"replies": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"target_id", "text"},
					"properties": map[string]any{
						"target_id": map[string]any{"type": "string"},
						"text":      map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

func batchPrompt(source string, targets []domain.Target, tone string) repository.CompletionRequest {
	var sb strings.Builder
	sb.WriteString("Write one reply for each of the following posts. Relate each reply to our product where it fits naturally.\n\n")
	sb.WriteString("Product Description:\n")
	sb.WriteString(source)
	sb.WriteString("\n\nPosts:\n")
	for i, target := range targets {
		sb.WriteString(fmt.Sprintf("%d. target_id=%s", i+1, target.ID))
		if target.CharLimit > 0 {
			sb.WriteString(fmt.Sprintf(" (max %d characters)", target.CharLimit))
		}
		sb.WriteString("\n")
		sb.WriteString(target.Context)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", tone))
	sb.WriteString(fmt.Sprintf("- Return exactly %d replies in the same order, each with the target_id it answers\n", len(targets)))

	return repository.CompletionRequest{System: systemPrompt, User: sb.String(), Schema: batchSchema}
}
