package content

import "time"

// Announcement is a broadcast shown on user dashboards.
type Announcement struct {
	ID        string
	Type      string // "text", "image" or "video"
	Content   string
	MediaKey  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuideVideo is a tutorial link shown on user dashboards.
type GuideVideo struct {
	ID        string
	Title     string
	VideoURL  string
	CreatedAt time.Time
}
