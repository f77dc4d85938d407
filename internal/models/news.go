package models

import "time"

// NewsItem represents a news article shown alongside market views.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"published_at"`
}
