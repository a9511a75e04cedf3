package repositorycache

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Generations counts invalidations per namespace. A read that fetched a
// record keeps its snapshot only when the namespace did not move while the
// fetch was in flight. Repositories whose deletes flush each other's
// namespaces must share one instance.
type Generations struct {
	namespaces *xsync.MapOf[string, *atomic.Uint64]
}

func NewGenerations() *Generations {
	return &Generations{namespaces: xsync.NewMapOf[string, *atomic.Uint64]()}
}

// Current returns the generation of namespace.
func (g *Generations) Current(namespace string) uint64 {
	return g.counter(namespace).Load()
}

// Advance moves namespace to its next generation.
func (g *Generations) Advance(namespace string) {
	g.counter(namespace).Add(1)
}

func (g *Generations) counter(namespace string) *atomic.Uint64 {
	c, _ := g.namespaces.LoadOrCompute(namespace, func() *atomic.Uint64 {
		return new(atomic.Uint64)
	})
	return c
}
