package httpapi

import "net/http"

var routeOverview = map[string]string{
	"Register":            "/user-register/",
	"Token":               "/token/",
	"Token refresh":       "/token/refresh/",
	"List":                "/product-list/",
	"Detail View":         "/product-detail/<str:pk>/",
	"Create":              "/product-create/",
	"Update":              "/product-update/<str:pk>/",
	"Delete":              "/product-delete/<str:pk>/",
	"Image":               "/product-image/<str:pk>/",
	"Cart-list":           "/cart-list/",
	"Cart-detail":         "/cart-detail/<str:pk>/",
	"Cart-create":         "/cart-create/",
	"Category-list":       "/category-list/",
	"Category-create":     "/category-create/",
	"Category-delete":     "/category-delete/<str:pk>/",
	"Status-list":         "/status-list/",
	"Status-create":       "/status-create/",
	"Status-delete":       "/status-delete/<str:pk>/",
	"Order-status-list":   "/order-status-list/",
	"Order-status-create": "/order-status-create/",
	"Order-list":          "/order-list/",
	"Order-detail":        "/order-detail/<str:pk>/",
	"Order-create":        "/order-create/",
	"Order-delete":        "/order-delete/<str:pk>/",
	"Orderitem-create":    "/orderitem-create/",
	"Orderitem-detail":    "/orderitem-detail/<str:pk>/",
	"Orderitem-update":    "/orderitem-update/<str:pk>/",
	"Orderitem-delete":    "/orderitem-delete/<str:pk>/",
	"Address-create":      "/address-create/",
	"Address-detail":      "/address-detail/<str:pk>/",
	"Address-update":      "/address-update/<str:pk>/",
	"Address-delete":      "/address-delete/<str:pk>/",
	"Review-create":       "/review-create/",
	"Review-detail":       "/review-detail/<str:pk>/",
	"Review-delete":       "/review-delete/<str:pk>/",
	"Cache-stats":         "/cache-stats/",
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, routeOverview)
}
