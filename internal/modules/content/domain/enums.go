//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SourceKind selects the document store a source is fetched from
// ENUM(notion,file,rss)
type SourceKind string

// TargetKind distinguishes platform posts from replies to existing posts
// ENUM(platform,reply)
type TargetKind string

// DraftStatus is the review state of a draft
// ENUM(pending,accepted,rejected,aborted)
type DraftStatus string
