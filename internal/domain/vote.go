package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteChoice is a single up/down signal.
type VoteChoice string

const (
	VoteUp   VoteChoice = "up"
	VoteDown VoteChoice = "down"
)

// IsValid reports whether c is up or down.
func (c VoteChoice) IsValid() bool {
	return c == VoteUp || c == VoteDown
}

// Vote is one user's signal on one activity. A user holds at most one vote
// per activity; voting again replaces the earlier vote.
type Vote struct {
	ID         uuid.UUID  `json:"id"`
	ActivityID uuid.UUID  `json:"activity_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Choice     VoteChoice `json:"choice"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VoteTally counts the votes on one activity.
type VoteTally struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// TallyVotes counts up and down votes.
func TallyVotes(votes []Vote) VoteTally {
	var t VoteTally
	for _, v := range votes {
		switch v.Choice {
		case VoteUp:
			t.Up++
		case VoteDown:
			t.Down++
		}
	}
	return t
}
