package domain

import "time"

// Post is a status found on the social network.
type Post struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
