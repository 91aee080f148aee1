package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/drivebook/backend/internal/domain"
)

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries the issued bearer token and its expiry.
type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /auth/login.
// Successful logins return a bearer token for the Authorization header;
// wrong credentials return 401 without distinguishing username from password.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeRequestError(w, "username and password are required")
		return
	}

	session, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeUnauthorized(w, err)
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}
