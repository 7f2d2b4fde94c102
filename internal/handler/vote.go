package handler

import (
	"net/http"

	"github.com/pkordes/wanderly/internal/domain"
)

type castVoteRequest struct {
	Choice string `json:"choice" validate:"required,oneof=up down"`
}

type votesResponse struct {
	Votes []domain.Vote    `json:"votes"`
	Tally domain.VoteTally `json:"tally"`
}

// ListVotes implements GET /activities/{activityID}/votes.
// Returns every vote along with the up/down tally.
func (s *Server) ListVotes(w http.ResponseWriter, r *http.Request) {
	a, err := s.memberActivity(r)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	votes, err := s.votes.List(r.Context(), a.ID)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, votesResponse{Votes: votes, Tally: domain.TallyVotes(votes)})
}

// CastVote implements PUT /activities/{activityID}/vote.
// Voting again replaces the caller's earlier vote.
func (s *Server) CastVote(w http.ResponseWriter, r *http.Request) {
	a, err := s.memberActivity(r)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	uid, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	var body castVoteRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "vote")
		return
	}
	v, err := s.votes.Vote(r.Context(), a.ID, uid, domain.VoteChoice(body.Choice))
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
