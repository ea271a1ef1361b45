package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamPost is an activity-feed entry. Level-ups and badge unlocks are
// published here as best-effort system posts; a failed publish never fails
// the operation that triggered it.
type StreamPost struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	System    bool
	CreatedAt time.Time
}

// LeaderboardEntry is one row of the competition leaderboard.
type LeaderboardEntry struct {
	ID          uuid.UUID
	Username    string
	AvatarURL   *string
	Points      int
	Words       int
	Expressions int
	Streak      int
}

// Leaderboard is the top-N standing plus the caller's own position.
type Leaderboard struct {
	Entries             []LeaderboardEntry
	CurrentUserPosition *int
	CurrentUserPoints   int
}

// TeamStanding is one row of the team leaderboard.
type TeamStanding struct {
	ID        uuid.UUID
	Name      string
	ColorHex  string
	Points    int
	Members   int
	AvgPoints int
}
