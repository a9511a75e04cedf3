package httpapi

import (
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/store"
)

type orderFilter struct {
	Mine   bool   `schema:"mine"`
	Status *int64 `schema:"order_status"`
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	var filter orderFilter
	if err := s.query.Decode(&filter, r.URL.Query()); err != nil {
		s.writeError(w, r, queryError(err))
		return
	}

	caller := callerID(r)
	criteria := store.SelectCriteria(func(q *bun.SelectQuery) *bun.SelectQuery {
		if filter.Mine && caller != nil {
			q = q.Where("?TableAlias.customer_id = ?", *caller)
		}
		if filter.Status != nil {
			q = q.Where("?TableAlias.order_status_id = ?", *filter.Status)
		}
		return q
	})

	orders, _, err := s.repos.Orders.List(r.Context(), criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// orderDetail returns the order with its items and totals computed from the
// current product prices.
func (s *Server) orderDetail(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Orders.Handlers().ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	order, err := s.store.Orders.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.store.OrderItemsByOrder(r.Context(), order.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}
	products, err := s.store.ProductsByIDs(r.Context(), productIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, catalog.NewOrderDetail(order, items, products))
}

// createOrder opens an order for the calling user.
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Order
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

	created, err := s.repos.Orders.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// deleteOrder removes the order. Its items and shipping addresses stay with
// the order reference nulled.
func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}

func (s *Server) createOrderItem(w http.ResponseWriter, r *http.Request) {
	var payload catalog.OrderItem
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.ID = ""
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.OrderItems.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) orderItemDetail(w http.ResponseWriter, r *http.Request) {
	item, err := s.repos.OrderItems.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateOrderItem(w http.ResponseWriter, r *http.Request) {
	var payload catalog.OrderItem
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.repos.OrderItems.Update(r.Context(), r.PathValue("id"), func(current catalog.OrderItem) (catalog.OrderItem, error) {
		next := payload.ApplyUpdate(current)
		return next, next.Validate()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteOrderItem(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.OrderItems.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted(w)
}
