package stock

import "time"

// Article is a news item attached to a report.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	TimeAgo     string    `json:"time_ago"`
}
