// internal/collection/form.go
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jerent/carfleet/internal/domain"
)

// FormSession owns the transient state of a single create or edit
// interaction. The draft is seeded empty for creates or from the existing row
// for edits; a failed submission leaves it untouched, a successful one resets
// it to the seed. While a submission is in flight further submits are
// rejected, mirroring a disabled submit button.
type FormSession[T any] struct {
	ctrl     *Controller[T]
	validate *validator.Validate

	mu       sync.Mutex
	seed     T
	draft    T
	patch    map[string]any
	editID   *uuid.UUID
	inFlight bool
}

func NewFormSession[T any](ctrl *Controller[T], validate *validator.Validate) *FormSession[T] {
	return &FormSession[T]{ctrl: ctrl, validate: validate}
}

// SetDraft replaces the draft record for a create interaction.
func (f *FormSession[T]) SetDraft(rec T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = rec
}

// SeedFrom switches the session to edit mode for the given row. The patch
// carries only the fields the user changed; validation runs against the
// seeded row with the patch applied.
func (f *FormSession[T]) SeedFrom(rec T, id uuid.UUID, patch map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seed = rec
	f.draft = rec
	f.editID = &id
	f.patch = patch
}

// Draft returns the current draft record.
func (f *FormSession[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit validates the draft and delegates to the controller's add or edit.
// Validation failures are reported before any network dispatch.
func (f *FormSession[T]) Submit(ctx context.Context, actor uuid.UUID) (T, error) {
	f.mu.Lock()
	var zero T
	if f.inFlight {
		f.mu.Unlock()
		return zero, domain.ErrSubmissionInFlight
	}
	f.inFlight = true
	draft := f.draft
	patch := f.patch
	editID := f.editID
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	candidate := draft
	if editID != nil {
		merged, err := mergePatch(draft, patch)
		if err != nil {
			return zero, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
		}
		candidate = merged
	}

	if err := f.validate.Struct(candidate); err != nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	var out T
	var err error
	if editID != nil {
		out, err = f.ctrl.Edit(ctx, *editID, patch)
	} else {
		out, err = f.ctrl.Add(ctx, actor, draft)
	}
	if err != nil {
		// Draft stays as entered so nothing the user typed is lost.
		return zero, err
	}

	f.mu.Lock()
	f.draft = f.seed
	f.patch = nil
	f.editID = nil
	f.mu.Unlock()
	return out, nil
}

// mergePatch overlays a field patch onto a record via its JSON form, yielding
// the candidate row that validation runs against.
func mergePatch[T any](rec T, patch map[string]any) (T, error) {
	var merged T

	raw, err := json.Marshal(rec)
	if err != nil {
		return merged, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return merged, err
	}
	for k, v := range patch {
		fields[k] = v
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return merged, err
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return merged, err
	}
	return merged, nil
}
