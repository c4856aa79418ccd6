// internal/collection/controller.go
package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jerent/carfleet/internal/domain"
)

// State is the controller's visible lifecycle phase. While Loading or
// Mutating the caller is expected to disable duplicate-triggering controls.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateMutating State = "mutating"
	StateFailed   State = "failed"
)

// Descriptor parameterizes a Controller for one entity type.
type Descriptor[T any] struct {
	// Name identifies the collection in error messages and logs.
	Name string

	// ID extracts the primary key of a row.
	ID func(T) uuid.UUID

	// SetOrganization stamps the tenant id onto a record before insert.
	// Nil for entities that are not tenant-stamped (invitations).
	SetOrganization func(*T, uuid.UUID)
}

// Controller owns the fetch/mutate lifecycle of one entity collection. The
// in-memory rows are a transient rendering copy; the backend remains the sole
// source of truth. A failure after a successful load never blanks the rows.
type Controller[T any] struct {
	desc Descriptor[T]
	gw   Gateway[T]
	orgs OrgResolver

	mu      sync.Mutex
	state   State
	rows    []T
	loaded  bool
	lastErr error
}

func NewController[T any](desc Descriptor[T], gw Gateway[T], orgs OrgResolver) *Controller[T] {
	return &Controller[T]{desc: desc, gw: gw, orgs: orgs, state: StateIdle}
}

// Load fetches the full collection. Loading twice with no intervening
// mutation yields the same ordered rows. On failure the previous rows are
// retained for display and returned alongside the error.
func (c *Controller[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateLoading
	rows, err := c.gw.List(ctx)
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		return c.snapshot(), fmt.Errorf("loading %s: %w", c.desc.Name, err)
	}

	c.rows = rows
	c.loaded = true
	c.state = StateLoaded
	c.lastErr = nil
	return c.snapshot(), nil
}

// Add resolves the acting user's organization, stamps it onto the record,
// inserts, and appends the returned row without refetching. A failed
// organization lookup fails the whole operation.
func (c *Controller[T]) Add(ctx context.Context, actor uuid.UUID, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.state = StateMutating

	if c.desc.SetOrganization != nil {
		if c.orgs == nil {
			c.fail(domain.ErrOrganizationUnresolved)
			return zero, fmt.Errorf("adding to %s: %w", c.desc.Name, domain.ErrOrganizationUnresolved)
		}
		orgID, err := c.orgs.OrganizationFor(ctx, actor)
		if err != nil {
			c.fail(err)
			return zero, fmt.Errorf("adding to %s: %w", c.desc.Name, err)
		}
		c.desc.SetOrganization(&rec, orgID)
	}

	inserted, err := c.gw.Insert(ctx, rec)
	if err != nil {
		c.fail(err)
		return zero, fmt.Errorf("adding to %s: %w", c.desc.Name, err)
	}

	c.rows = append(c.rows, inserted)
	c.settle()
	return inserted, nil
}

// Edit applies a partial update. The gateway returns the updated row, which
// replaces the in-memory row by id. Every entity type follows this same
// pattern.
func (c *Controller[T]) Edit(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.state = StateMutating

	updated, err := c.gw.Update(ctx, id, patch)
	if err != nil {
		c.fail(err)
		return zero, fmt.Errorf("editing %s: %w", c.desc.Name, err)
	}

	for i := range c.rows {
		if c.desc.ID(c.rows[i]) == id {
			c.rows[i] = updated
			break
		}
	}
	c.settle()
	return updated, nil
}

// Remove deletes a row. The caller must pass explicit user confirmation;
// without it no delete is issued.
func (c *Controller[T]) Remove(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("removing from %s: %w", c.desc.Name, domain.ErrConfirmationRequired)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateMutating
	if err := c.gw.Delete(ctx, id); err != nil {
		c.fail(err)
		return fmt.Errorf("removing from %s: %w", c.desc.Name, err)
	}

	kept := c.rows[:0]
	for _, row := range c.rows {
		if c.desc.ID(row) != id {
			kept = append(kept, row)
		}
	}
	c.rows = kept
	c.settle()
	return nil
}

// Get returns a single row from the collection, loading it first if needed.
func (c *Controller[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()

	var zero T
	if !loaded {
		if _, err := c.Load(ctx); err != nil {
			return zero, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range c.rows {
		if c.desc.ID(row) == id {
			return row, nil
		}
	}
	return zero, fmt.Errorf("getting from %s: %w", c.desc.Name, domain.ErrNotFound)
}

// Rows returns the current in-memory copy of the collection.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error from the most recent failed operation, if any.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// fail records the error; previously loaded rows stay visible.
func (c *Controller[T]) fail(err error) {
	c.state = StateFailed
	c.lastErr = err
}

func (c *Controller[T]) settle() {
	c.state = StateLoaded
	c.lastErr = nil
}

func (c *Controller[T]) snapshot() []T {
	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}
