package repositorycache

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// NamespaceStats is a point-in-time view of one namespace's lookups.
type NamespaceStats struct {
	Namespace string `json:"namespace"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
}

type lookupCounters struct {
	hits   *xsync.Counter
	misses *xsync.Counter
}

// Stats counts cache hits and misses per namespace. It is safe for concurrent
// use and shared by every CachedRepository built by one container.
type Stats struct {
	namespaces *xsync.MapOf[string, *lookupCounters]
}

func NewStats() *Stats {
	return &Stats{namespaces: xsync.NewMapOf[string, *lookupCounters]()}
}

func (s *Stats) Hit(namespace string) {
	s.counters(namespace).hits.Inc()
}

func (s *Stats) Miss(namespace string) {
	s.counters(namespace).misses.Inc()
}

// Snapshot returns the counters of every namespace seen so far, sorted by name.
func (s *Stats) Snapshot() []NamespaceStats {
	out := make([]NamespaceStats, 0, s.namespaces.Size())
	s.namespaces.Range(func(namespace string, c *lookupCounters) bool {
		out = append(out, NamespaceStats{
			Namespace: namespace,
			Hits:      c.hits.Value(),
			Misses:    c.misses.Value(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out
}

func (s *Stats) counters(namespace string) *lookupCounters {
	c, _ := s.namespaces.LoadOrCompute(namespace, func() *lookupCounters {
		return &lookupCounters{hits: xsync.NewCounter(), misses: xsync.NewCounter()}
	})
	return c
}
