package domain

import (
	"fmt"
	"strings"
	"time"

	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	"github.com/samber/lo"
)

// Report summarises one run.
type Report struct {
	RunID      string                 `json:"run_id"`
	Mode       Mode                   `json:"mode"`
	SourceID   string                 `json:"source_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Keywords   []string               `json:"keywords,omitempty"`
	PostsFound int                    `json:"posts_found,omitempty"`
	Generated  int                    `json:"generated"`
	Accepted   int                    `json:"accepted"`
	Aborted    bool                   `json:"aborted"`
	Image      bool                   `json:"image"`
	Results    []publishDomain.Result `json:"results,omitempty"`
	// Note explains a run that ended early without an error.
	Note string `json:"note,omitempty"`
}

// PublishFailures counts targets whose publish attempt failed.
func (r *Report) PublishFailures() int {
	return lo.CountBy(r.Results, func(res publishDomain.Result) bool { return res.Failed() })
}

// Published counts targets that reached the network or the export.
func (r *Report) Published() int {
	return lo.CountBy(r.Results, func(res publishDomain.Result) bool {
		return res.Status == publishDomain.PublishStatusPublished || res.Status == publishDomain.PublishStatusExported
	})
}

// Summary renders the report as plain text lines.
func (r *Report) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("run %s (%s mode, source %s)\n", r.RunID, r.Mode, r.SourceID))
	if len(r.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("keywords: %s\n", strings.Join(r.Keywords, ", ")))
		sb.WriteString(fmt.Sprintf("posts found: %d\n", r.PostsFound))
	}
	sb.WriteString(fmt.Sprintf("drafts: %d generated, %d accepted\n", r.Generated, r.Accepted))
	if r.Aborted {
		sb.WriteString("review aborted, nothing published\n")
	}
	if r.Note != "" {
		sb.WriteString(r.Note + "\n")
	}
	for _, res := range r.Results {
		line := fmt.Sprintf("%s %s: %s", res.Target.Kind, res.Target.ID, res.Status)
		if res.URL != "" {
			line += " " + res.URL
		}
		if res.Err != nil {
			line += " (" + res.Err.Error() + ")"
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
