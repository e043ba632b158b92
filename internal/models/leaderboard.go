package models

import (
	"time"

	"gorm.io/datatypes"
)

// Leaderboard snapshot types.
const (
	// LeaderboardWeekly ranks points earned over the trailing seven days.
	LeaderboardWeekly = "weekly"
	// LeaderboardMonthly ranks points earned since the start of the calendar month.
	LeaderboardMonthly = "monthly"
	// LeaderboardAllTime ranks denormalized total balances.
	LeaderboardAllTime = "all-time"
)

// LeaderboardTypes lists every snapshot type in compute order.
var LeaderboardTypes = []string{LeaderboardWeekly, LeaderboardMonthly, LeaderboardAllTime}

// ValidLeaderboardType reports whether a type value names a known leaderboard.
func ValidLeaderboardType(typ string) bool {
	switch typ {
	case LeaderboardWeekly, LeaderboardMonthly, LeaderboardAllTime:
		return true
	default:
		return false
	}
}

// LeaderboardEntry is one ranked row inside a snapshot's entries JSON.
type LeaderboardEntry struct {
	UserID        uint64  `json:"user_id"`
	DisplayName   string  `json:"display_name"`
	InstitutionID *uint64 `json:"institution_id,omitempty"`
	Points        int64   `json:"points"`
	Rank          int     `json:"rank"`
	Change        int     `json:"change"`
}

// LeaderboardSnapshot stores the latest ranking for one leaderboard type.
// Exactly one row exists per type; each computation replaces it.
type LeaderboardSnapshot struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Type string `gorm:"type:text;not null;uniqueIndex"` // Snapshot type (weekly, monthly, all-time).

	Entries      datatypes.JSON `gorm:"type:jsonb;not null"` // Ordered LeaderboardEntry array.
	TotalEntries int            `gorm:"not null;default:0"`  // Number of ranked users.

	ComputedAt time.Time `gorm:"not null"` // When this snapshot was computed.
}
