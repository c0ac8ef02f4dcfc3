//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Decision is the outcome of a single review step
// ENUM(accept,regenerate,reject,abort_all)
type Decision string

// Frontend selects the approval front-end
// ENUM(local,remote)
type Frontend string
