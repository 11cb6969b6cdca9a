package paymentgateway

import (
	"sort"
	"sync"

	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
)

// Registry resolves gateways by provider code.
type Registry struct {
	mu       sync.RWMutex
	gateways map[vo.Provider]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[vo.Provider]Gateway, len(gateways))}
	for _, g := range gateways {
		r.Register(g)
	}
	return r
}

func (r *Registry) Register(g Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.Provider()] = g
}

func (r *Registry) Get(provider vo.Provider) (Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gateways[provider]
	return g, ok
}

// Providers returns the registered provider codes in sorted order.
func (r *Registry) Providers() []vo.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vo.Provider, 0, len(r.gateways))
	for p := range r.gateways {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
