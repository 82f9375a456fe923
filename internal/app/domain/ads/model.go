package ads

import "time"

// Ad is a rewardable unit users can view once per calendar day.
type Ad struct {
	ID        string
	Title     string
	Type      string // "video", "image" or "link"
	MediaKey  string
	Link      string
	Reward    float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View records that a user claimed the reward for an ad. At most one view per
// (user, ad, UTC day).
type View struct {
	ID       string
	UserID   string
	AdID     string
	Reward   float64 // reward in effect when the view was claimed
	ViewedAt time.Time
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Stats summarises claim activity for a single ad.
type Stats struct {
	AdID          string
	Title         string
	UniqueViewers int
	Reward        float64
	TotalPaid     float64
	IsActive      bool
}
