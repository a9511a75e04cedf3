package httpapi

import (
	"net/http"

	"github.com/goliatone/go-storefront/catalog"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg catalog.Registration
	if err := decodeJSON(w, r, &reg); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.accounts.Register(r.Context(), reg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var creds catalog.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.accounts.Login(r.Context(), creds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	access, err := s.accounts.Refresh(req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Access: access})
}
