package handler

import (
	"net/http"

	"github.com/pkordes/wanderly/internal/domain"
)

type sendMessageRequest struct {
	Content     string `json:"content" validate:"required"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text"`
}

// ListMessages implements GET /trips/{tripID}/messages.
// Messages are returned oldest first, one page at a time.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	p, err := paginationParams(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	msgs, err := s.messages.List(r.Context(), trip.ID)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, paginate(msgs, p))
}

// SendMessage implements POST /trips/{tripID}/messages.
// Content is sanitized before it is stored.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	uid, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body sendMessageRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "message")
		return
	}
	m, err := s.messages.Send(r.Context(), trip.ID, uid, body.Content, domain.MessageType(body.MessageType))
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
