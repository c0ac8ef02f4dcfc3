//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Visibility of a Mastodon status
// ENUM(public,unlisted,private,direct)
type Visibility string

// PublishStatus is the per-target outcome of publishing
// ENUM(published,exported,skipped,failed)
type PublishStatus string
