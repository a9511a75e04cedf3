package httpapi

import (
	"net/http"

	"github.com/goliatone/go-storefront/catalog"
)

func (s *Server) listCarts(w http.ResponseWriter, r *http.Request) {
	carts, _, err := s.store.Carts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ids := make([]int64, 0, len(carts))
	for _, c := range carts {
		ids = append(ids, c.CustomerID)
	}
	links, err := s.store.CartProducts(r.Context(), ids...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range carts {
		carts[i].Products = productIDs(links[carts[i].CustomerID])
	}
	writeJSON(w, http.StatusOK, carts)
}

func (s *Server) cartDetail(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Carts.Handlers().ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cart, err := s.store.Carts.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	links, err := s.store.CartProducts(r.Context(), cart.CustomerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cart.Products = productIDs(links[cart.CustomerID])
	writeJSON(w, http.StatusOK, cart)
}

// createCart creates the cart of the calling user.
func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Cart
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	payload.CustomerID = *callerID(r)
	if err := payload.Normalize(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	cart, err := s.store.CreateCart(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	links, err := s.store.CartProducts(r.Context(), cart.CustomerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cart.Products = productIDs(links[cart.CustomerID])
	writeJSON(w, http.StatusCreated, cart)
}

func productIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
