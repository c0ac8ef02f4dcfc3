package domain

import contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"

// PostRequest is a new top-level status on the network.
type PostRequest struct {
	Text        string
	Image       *contentDomain.Image
	Visibility  Visibility
	SpoilerText string
}

// Status is what the network returns for a created post or reply.
type Status struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Result is the outcome of publishing one accepted draft.
type Result struct {
	Target   contentDomain.Target `json:"target"`
	Status   PublishStatus        `json:"status"`
	RemoteID string               `json:"remote_id,omitempty"`
	URL      string               `json:"url,omitempty"`
	Err      error                `json:"-"`
}

// Failed reports whether the publish attempt failed.
func (r Result) Failed() bool {
	return r.Status == PublishStatusFailed
}
