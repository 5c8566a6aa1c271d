package publishers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/logger"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Registry maps publisher types to builders. The zero value is empty and
// not safe for concurrent Register calls; fill it before sharing.
type Registry map[string]Builder

// DefaultRegistry knows every built-in sink type.
func DefaultRegistry() Registry {
	return Registry{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// Register associates a builder with a type; blank types and nil builders are ignored.
func (r Registry) Register(typ string, b Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || b == nil {
		return
	}
	r[typ] = b
}

// Types lists registered types in sorted order.
func (r Registry) Types() []string {
	out := make([]string, 0, len(r))
	for typ := range r {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Build constructs the publisher for cfg.
func (r Registry) Build(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	b, ok := r[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q (known: %s)", cfg.Type, strings.Join(r.Types(), ", "))
	}
	return b(ctx, cfg, logger.Ensure(log))
}

// BuildAll instantiates publishers for cfgs. On failure, the ones already
// built are closed.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log logger.Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.Build(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
