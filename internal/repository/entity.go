// internal/repository/entity.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/domain"
)

// EntityRepository is the shared gorm-backed store for the console's CRUD
// collections. One instance per entity type, configured with the entity's
// ordering, join expansion, and editable columns, replaces the per-entity
// near-duplicate stores the console would otherwise accumulate.
//
// Tenant-scoped entities are only ever queried through Scoped views so one
// organization's rows stay invisible to every other.
type EntityRepository[T any] struct {
	db           *gorm.DB
	name         string
	order        string
	preloads     []string
	idOf         func(T) uuid.UUID
	tenantScoped bool
	patchable    map[string]bool
	orgID        uuid.UUID
}

func newEntityRepository[T any](db *gorm.DB, name, order string, preloads []string, idOf func(T) uuid.UUID, tenantScoped bool, patchable []string) *EntityRepository[T] {
	cols := make(map[string]bool, len(patchable))
	for _, c := range patchable {
		cols[c] = true
	}
	return &EntityRepository[T]{
		db:           db,
		name:         name,
		order:        order,
		preloads:     preloads,
		idOf:         idOf,
		tenantScoped: tenantScoped,
		patchable:    cols,
	}
}

// Scoped returns a view of the store limited to one organization's rows.
// Every read and write through the view carries the organization filter.
func (r *EntityRepository[T]) Scoped(orgID uuid.UUID) *EntityRepository[T] {
	scoped := *r
	scoped.orgID = orgID
	return &scoped
}

func (r *EntityRepository[T]) scope(q *gorm.DB) *gorm.DB {
	if r.tenantScoped && r.orgID != uuid.Nil {
		return q.Where("organization_id = ?", r.orgID)
	}
	return q
}

func (r *EntityRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.scope(r.db.WithContext(ctx))
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// checkPatch rejects any patch touching a column outside the entity's
// editable set, keeping tenant and bookkeeping columns out of client reach.
func (r *EntityRepository[T]) checkPatch(patch map[string]any) error {
	for col := range patch {
		if !r.patchable[col] {
			return fmt.Errorf("%w: column %q is not editable", domain.ErrInvalidInput, col)
		}
	}
	return nil
}

// List returns every row of the collection, join-expanded and ordered by the
// entity's designated field when it has one.
func (r *EntityRepository[T]) List(ctx context.Context) ([]T, error) {
	q := r.query(ctx)
	if r.order != "" {
		q = q.Order(r.order)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.name, err)
	}
	return rows, nil
}

// Find returns a single row by primary key.
func (r *EntityRepository[T]) Find(ctx context.Context, id uuid.UUID) (T, error) {
	var row T
	if err := r.query(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, fmt.Errorf("finding %s: %w", r.name, domain.ErrNotFound)
		}
		return row, fmt.Errorf("finding %s: %w", r.name, err)
	}
	return row, nil
}

// Insert creates the row and returns it re-read with its joins expanded, so
// callers can append it to an already-enriched collection without refetching.
func (r *EntityRepository[T]) Insert(ctx context.Context, rec T) (T, error) {
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return rec, fmt.Errorf("creating %s: %w", r.name, domain.ErrDuplicate)
		}
		return rec, fmt.Errorf("creating %s: %w", r.name, err)
	}

	if len(r.preloads) == 0 {
		return rec, nil
	}
	return r.Find(ctx, r.idOf(rec))
}

// Update applies a partial column patch and returns the updated row. Only
// whitelisted columns may be patched; a row outside the view's organization
// is reported as not found.
func (r *EntityRepository[T]) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error) {
	var zero T
	if err := r.checkPatch(patch); err != nil {
		return zero, fmt.Errorf("updating %s: %w", r.name, err)
	}

	res := r.scope(r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)).Updates(patch)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return zero, fmt.Errorf("updating %s: %w", r.name, domain.ErrDuplicate)
		}
		return zero, fmt.Errorf("updating %s: %w", r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return zero, fmt.Errorf("updating %s: %w", r.name, domain.ErrNotFound)
	}
	return r.Find(ctx, id)
}

// Delete removes the row by primary key. Deleting an absent id, or one owned
// by another organization, is reported as a not-found error, never a crash.
func (r *EntityRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.scope(r.db.WithContext(ctx).Where("id = ?", id)).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("deleting %s: %w", r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting %s: %w", r.name, domain.ErrNotFound)
	}
	return nil
}
