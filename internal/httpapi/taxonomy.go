package httpapi

import (
	"net/http"

	"github.com/goliatone/go-storefront/catalog"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, _, err := s.repos.Categories.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Category
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.ID = 0
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.Categories.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// deleteCategory nulls the category of its products and flushes their
// cached snapshots.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}

func (s *Server) listStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, _, err := s.repos.Statuses.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) createStatus(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Status
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.ID = 0
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.Statuses.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Statuses.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}

func (s *Server) listOrderStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, _, err := s.repos.OrderStatuses.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) createOrderStatus(w http.ResponseWriter, r *http.Request) {
	var payload catalog.OrderStatus
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.ID = 0
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.OrderStatuses.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
