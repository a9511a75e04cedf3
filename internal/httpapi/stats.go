package httpapi

import (
	"net/http"

	"github.com/goliatone/go-storefront/repositorycache"
)

type cacheStatsResponse struct {
	Namespaces []repositorycache.NamespaceStats `json:"namespaces"`
}

func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	resp := cacheStatsResponse{Namespaces: []repositorycache.NamespaceStats{}}
	if s.stats != nil {
		resp.Namespaces = s.stats.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}
