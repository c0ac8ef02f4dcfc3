package domain

// FeedConfig represents the RSS export settings
type FeedConfig struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// MaxItems bounds how many entries the export keeps.
const MaxItems = 50
