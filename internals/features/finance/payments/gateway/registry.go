package gateway

// Registry is the only place that branches on provider identity.
type Registry struct {
	gateways map[Provider]PaymentGateway
}

func NewRegistry(gws ...PaymentGateway) *Registry {
	r := &Registry{gateways: make(map[Provider]PaymentGateway, len(gws))}
	for _, gw := range gws {
		r.gateways[gw.Provider()] = gw
	}
	return r
}

// Resolve fails fast with *UnsupportedProviderError for unknown keys.
func (r *Registry) Resolve(p Provider) (PaymentGateway, error) {
	gw, ok := r.gateways[p]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: p}
	}
	return gw, nil
}

func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.gateways))
	for p := range r.gateways {
		out = append(out, p)
	}
	return out
}
