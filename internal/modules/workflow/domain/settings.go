package domain

import "strings"

// Settings is the resolved configuration of one run. It is built once at startup
// and passed by value.
type Settings struct {
	Mode          Mode
	SourceID      string
	Platforms     []string
	CharLimits    map[string]int
	Tone          string
	AutoPublish   bool
	EnforceLimits bool
	TriggerPhrase string
	// MaxRegenerations caps reviewer-requested regenerations per draft; zero is unlimited.
	MaxRegenerations int
	ImageEnabled     bool
	// ReplyPlatform is the network searched and replied on in reply mode.
	ReplyPlatform string
	MaxKeywords   int
	SearchLimit   int
}

// CharLimit returns the configured limit for a platform, or zero when it has none.
func (s Settings) CharLimit(platform string) int {
	return s.CharLimits[strings.ToLower(platform)]
}
