//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Kind distinguishes typed text from inline button presses
// ENUM(text,callback)
type Kind string
