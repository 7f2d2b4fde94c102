package domain

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole is a member's permission level within a trip.
type MemberRole string

const (
	RoleOwner     MemberRole = "owner"
	RoleEditor    MemberRole = "editor"
	RoleViewer    MemberRole = "viewer"
	RoleModerator MemberRole = "moderator"
)

// IsValid reports whether r is one of the known roles.
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer, RoleModerator:
		return true
	}
	return false
}

// TripMember links a user to a trip. Exactly one member per trip holds
// RoleOwner, created together with the trip.
type TripMember struct {
	ID       uuid.UUID  `json:"id"`
	TripID   uuid.UUID  `json:"trip_id"`
	UserID   uuid.UUID  `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}
