package service

import (
	"regexp"
	"strings"
)

var (
	markedPost     = regexp.MustCompile(`(?s)<POST_START>\s*(.*?)\s*<POST_END>`)
	markerTag      = regexp.MustCompile(`(?i)<POST_(START|END)>`)
	ruleLine       = regexp.MustCompile(`^={10,}$`)
	promptArtifact = regexp.MustCompile(`(?i)^(Product Description|Requirements|Platform|Tone|Maximum length|Based on the following|Generate the social media post|Generate the reply)`)
)

// extractPost returns the text between the post markers, or the answer cleaned of
// marker tags and echoed prompt lines when the model ignored the markers.
func extractPost(content string) string {
	if m := markedPost.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}

	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(markerTag.ReplaceAllString(line, ""))
		if ruleLine.MatchString(line) || promptArtifact.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
