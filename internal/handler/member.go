package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
)

type addMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role" validate:"omitempty,oneof=editor viewer moderator"`
}

// ListMembers implements GET /trips/{tripID}/members.
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	members, err := s.members.List(r.Context(), trip.ID)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// AddMember implements POST /trips/{tripID}/members.
// The role defaults to viewer; a second owner cannot be added.
func (s *Server) AddMember(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body addMemberRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "member")
		return
	}
	if body.UserID == uuid.Nil {
		s.respondError(w, r, fieldErrorf("user_id is required"), "member")
		return
	}
	m, err := s.members.Add(r.Context(), trip.ID, body.UserID, domain.MemberRole(body.Role))
	if err != nil {
		s.respondError(w, r, err, "member")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
