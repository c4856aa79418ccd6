package collection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/domain"
)

type draft struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name" validate:"required"`
	Amount float64   `json:"amount" validate:"required"`
	Status string    `json:"status" validate:"omitempty,oneof=paid pastdue"`
	OrgID  uuid.UUID `json:"org_id"`
}

type draftGateway struct {
	rows    []draft
	insErr  error
	updErr  error
	started chan struct{}
	release chan struct{}
}

func (g *draftGateway) List(ctx context.Context) ([]draft, error) {
	out := make([]draft, len(g.rows))
	copy(out, g.rows)
	return out, nil
}

func (g *draftGateway) Insert(ctx context.Context, rec draft) (draft, error) {
	if g.started != nil {
		close(g.started)
		<-g.release
	}
	if g.insErr != nil {
		return draft{}, g.insErr
	}
	rec.ID = uuid.New()
	g.rows = append(g.rows, rec)
	return rec, nil
}

func (g *draftGateway) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (draft, error) {
	if g.updErr != nil {
		return draft{}, g.updErr
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			if name, ok := patch["name"].(string); ok {
				g.rows[i].Name = name
			}
			return g.rows[i], nil
		}
	}
	return draft{}, domain.ErrNotFound
}

func (g *draftGateway) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newDraftController(gw *draftGateway) *collection.Controller[draft] {
	return collection.NewController(collection.Descriptor[draft]{
		Name: "drafts",
		ID:   func(d draft) uuid.UUID { return d.ID },
		SetOrganization: func(d *draft, orgID uuid.UUID) {
			d.OrgID = orgID
		},
	}, gw, &fakeOrgResolver{orgID: uuid.New()})
}

func TestFormSessionValidation(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("missing required fields rejected before dispatch", func(t *testing.T) {
		gw := &draftGateway{}
		form := collection.NewFormSession(newDraftController(gw), validator.New())
		form.SetDraft(draft{Name: "no amount"})

		_, err := form.Submit(ctx, actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, gw.rows, "invalid draft must not reach the gateway")
	})

	t.Run("valid draft submits and resets", func(t *testing.T) {
		gw := &draftGateway{}
		form := collection.NewFormSession(newDraftController(gw), validator.New())
		form.SetDraft(draft{Name: "fuel", Amount: 150.00})

		row, err := form.Submit(ctx, actor)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, row.ID)
		assert.Equal(t, draft{}, form.Draft(), "draft resets after success")
	})
}

func TestFormSessionRetainsDraftOnFailure(t *testing.T) {
	ctx := context.Background()

	gw := &draftGateway{insErr: errors.New("duplicate key")}
	form := collection.NewFormSession(newDraftController(gw), validator.New())

	entered := draft{Name: "fuel", Amount: 150.00}
	form.SetDraft(entered)

	_, err := form.Submit(ctx, uuid.New())
	assert.Error(t, err)
	assert.Equal(t, entered, form.Draft(), "failed submit must not clear what the user typed")
}

func TestFormSessionBlocksDoubleSubmit(t *testing.T) {
	ctx := context.Background()

	gw := &draftGateway{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	form := collection.NewFormSession(newDraftController(gw), validator.New())
	form.SetDraft(draft{Name: "fuel", Amount: 150.00})

	firstDone := make(chan error, 1)
	go func() {
		_, err := form.Submit(ctx, uuid.New())
		firstDone <- err
	}()

	// Wait until the first submit is inside the gateway call.
	select {
	case <-gw.started:
	case <-time.After(time.Second):
		t.Fatal("first submit never reached the gateway")
	}

	_, err := form.Submit(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(gw.release)
	require.NoError(t, <-firstDone)
}

func TestFormSessionEdit(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("patch merges onto the seeded row", func(t *testing.T) {
		id := uuid.New()
		gw := &draftGateway{rows: []draft{{ID: id, Name: "before", Amount: 10}}}
		ctrl := newDraftController(gw)
		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		form := collection.NewFormSession(ctrl, validator.New())
		form.SeedFrom(gw.rows[0], id, map[string]any{"name": "after"})

		row, err := form.Submit(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, "after", row.Name)
		assert.Equal(t, 10.0, row.Amount, "untouched fields keep their values")
	})

	t.Run("patch with a value outside the status set is rejected", func(t *testing.T) {
		id := uuid.New()
		gw := &draftGateway{rows: []draft{{ID: id, Name: "fuel", Amount: 10, Status: "paid"}}}
		ctrl := newDraftController(gw)
		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		form := collection.NewFormSession(ctrl, validator.New())
		form.SeedFrom(gw.rows[0], id, map[string]any{"status": "anything"})

		_, err = form.Submit(ctx, actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "paid", gw.rows[0].Status, "no update may be dispatched")
	})

	t.Run("patch clearing a required field is rejected", func(t *testing.T) {
		id := uuid.New()
		gw := &draftGateway{rows: []draft{{ID: id, Name: "before", Amount: 10}}}
		ctrl := newDraftController(gw)
		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		form := collection.NewFormSession(ctrl, validator.New())
		form.SeedFrom(gw.rows[0], id, map[string]any{"name": ""})

		_, err = form.Submit(ctx, actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "before", gw.rows[0].Name, "no update may be dispatched")
	})
}
