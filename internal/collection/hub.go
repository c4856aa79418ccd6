// internal/collection/hub.go
package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// GatewayFactory builds a gateway view limited to one organization's rows.
type GatewayFactory[T any] func(orgID uuid.UUID) Gateway[T]

// Hub hands out one Controller per organization. Controllers hold in-memory
// row copies, so sharing one across tenants would leak rows between
// organizations; the hub keeps each organization's collection isolated behind
// its own controller and gateway view.
type Hub[T any] struct {
	desc    Descriptor[T]
	factory GatewayFactory[T]
	orgs    OrgResolver

	mu    sync.Mutex
	ctrls map[uuid.UUID]*Controller[T]
}

func NewHub[T any](desc Descriptor[T], factory GatewayFactory[T], orgs OrgResolver) *Hub[T] {
	return &Hub[T]{
		desc:    desc,
		factory: factory,
		orgs:    orgs,
		ctrls:   make(map[uuid.UUID]*Controller[T]),
	}
}

// For resolves the acting user's organization and returns the controller
// owning that organization's collection, creating it on first use. Users of
// the same organization share a controller; users of different organizations
// never do.
func (h *Hub[T]) For(ctx context.Context, actor uuid.UUID) (*Controller[T], error) {
	orgID, err := h.orgs.OrganizationFor(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("resolving organization for %s: %w", h.desc.Name, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ctrl, ok := h.ctrls[orgID]; ok {
		return ctrl, nil
	}

	ctrl := NewController(h.desc, h.factory(orgID), h.orgs)
	h.ctrls[orgID] = ctrl
	return ctrl, nil
}
