package models

import (
	"time"
)

// Account is a registered BeardlessBucks holder
type Account struct {
	ID        int64     `db:"id"` // Registration order, used as the leaderboard tie-break
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Name    string
	Balance int64
}
