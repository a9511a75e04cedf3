package httpapi

import (
	"net/http"
	"time"

	"github.com/goliatone/go-storefront/catalog"
)

// createReview stores the caller's review. A product holds at most one review.
func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var payload catalog.ProductReview
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

	if payload.ProductID != nil {
		exists, err := s.store.ReviewExistsForProduct(r.Context(), *payload.ProductID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if exists {
			s.writeError(w, r, catalog.FieldError("invalid review", "product", "product review with this product already exists"))
			return
		}
	}

	created, err := s.repos.Reviews.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) reviewDetail(w http.ResponseWriter, r *http.Request) {
	review, err := s.repos.Reviews.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Reviews.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}
