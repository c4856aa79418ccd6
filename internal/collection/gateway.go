// internal/collection/gateway.go

// Package collection holds the generalized CRUD core shared by every entity
// page of the console: a gateway contract over the backing store, a list
// controller owning one collection's fetch/mutate lifecycle, and a form
// session owning one create/edit interaction.
package collection

import (
	"context"

	"github.com/google/uuid"
)

// Gateway is the remote data boundary for one entity collection. All
// operations are single-shot: no retry, no pagination. Expected failures come
// back as errors carrying the backend's message; the gateway never panics for
// them.
type Gateway[T any] interface {
	// List fetches every row, join-expanded and ordered by the entity's
	// designated field when it has one.
	List(ctx context.Context) ([]T, error)

	// Insert creates the record and returns the stored row.
	Insert(ctx context.Context, rec T) (T, error)

	// Update applies a partial column patch and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error)

	// Delete removes the row. Absent ids are reported as errors, not panics.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrgResolver maps an acting user to their organization, the tenant id
// stamped onto every record at insert.
type OrgResolver interface {
	OrganizationFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
