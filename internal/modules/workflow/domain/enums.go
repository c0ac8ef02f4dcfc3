//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Mode selects the workflow to run
// ENUM(post,reply)
type Mode string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
