package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
)

type signUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SignUp implements POST /auth/sign-up.
// Creates the account and returns 201 with a bearer token.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "account")
		return
	}
	user, err := s.auth.Register(r.Context(), body.Email, body.Password, body.DisplayName)
	if err != nil {
		s.respondError(w, r, err, "account")
		return
	}
	s.respondSession(w, r, http.StatusCreated, user)
}

// SignIn implements POST /auth/sign-in.
// Unknown email and wrong password both yield 401.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "account")
		return
	}
	user, err := s.auth.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		s.respondError(w, r, err, "account")
		return
	}
	s.respondSession(w, r, http.StatusOK, user)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, user domain.User) {
	token, expires, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.respondError(w, r, err, "account")
		return
	}
	writeJSON(w, status, sessionResponse{User: user, Token: token, ExpiresAt: expires})
}

// GetMe implements GET /me.
// A valid token for a deleted account answers 401.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "user")
		return
	}
	user, err := s.auth.GetUser(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			err = domain.ErrUnauthenticated
		}
		s.respondError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
