package httpapi

import (
	"net/http"
	"time"

	"github.com/goliatone/go-storefront/catalog"
)

// createAddress stores a shipping address owned by the calling user.
func (s *Server) createAddress(w http.ResponseWriter, r *http.Request) {
	var payload catalog.ShippingAddress
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	payload.ID = ""
	payload.CustomerID = callerID(r)
	payload.CreatedAt = time.Time{}
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.Addresses.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) addressDetail(w http.ResponseWriter, r *http.Request) {
	address, err := s.repos.Addresses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

func (s *Server) updateAddress(w http.ResponseWriter, r *http.Request) {
	var payload catalog.ShippingAddress
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.repos.Addresses.Update(r.Context(), r.PathValue("id"), func(current catalog.ShippingAddress) (catalog.ShippingAddress, error) {
		next := payload.ApplyUpdate(current)
		return next, next.Validate()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Addresses.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}
