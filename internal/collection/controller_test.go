package collection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/domain"
)

type record struct {
	ID             uuid.UUID
	Name           string
	Amount         float64
	Status         string
	OrganizationID uuid.UUID
}

// fakeGateway is an in-memory Gateway backed by a slice, with injectable
// failures per operation.
type fakeGateway struct {
	rows    []record
	listErr error
	insErr  error
	updErr  error
	delErr  error
}

func (g *fakeGateway) List(ctx context.Context) ([]record, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]record, len(g.rows))
	copy(out, g.rows)
	return out, nil
}

func (g *fakeGateway) Insert(ctx context.Context, rec record) (record, error) {
	if g.insErr != nil {
		return record{}, g.insErr
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	g.rows = append(g.rows, rec)
	return rec, nil
}

func (g *fakeGateway) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (record, error) {
	if g.updErr != nil {
		return record{}, g.updErr
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			if name, ok := patch["name"].(string); ok {
				g.rows[i].Name = name
			}
			if status, ok := patch["status"].(string); ok {
				g.rows[i].Status = status
			}
			return g.rows[i], nil
		}
	}
	return record{}, domain.ErrNotFound
}

func (g *fakeGateway) Delete(ctx context.Context, id uuid.UUID) error {
	if g.delErr != nil {
		return g.delErr
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeOrgResolver struct {
	orgID uuid.UUID
	err   error
}

func (r *fakeOrgResolver) OrganizationFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if r.err != nil {
		return uuid.Nil, r.err
	}
	return r.orgID, nil
}

func descriptor() collection.Descriptor[record] {
	return collection.Descriptor[record]{
		Name: "records",
		ID:   func(r record) uuid.UUID { return r.ID },
		SetOrganization: func(r *record, orgID uuid.UUID) {
			r.OrganizationID = orgID
		},
	}
}

func TestControllerLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("load is idempotent without mutations", func(t *testing.T) {
		gw := &fakeGateway{rows: []record{
			{ID: uuid.New(), Name: "first"},
			{ID: uuid.New(), Name: "second"},
		}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		first, err := ctrl.Load(ctx)
		require.NoError(t, err)
		second, err := ctrl.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, collection.StateLoaded, ctrl.State())
	})

	t.Run("failed reload retains previous rows", func(t *testing.T) {
		gw := &fakeGateway{rows: []record{{ID: uuid.New(), Name: "kept"}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		gw.listErr = errors.New("backend down")
		rows, err := ctrl.Load(ctx)
		assert.Error(t, err)
		assert.Len(t, rows, 1, "previous rows must stay visible")
		assert.Equal(t, "kept", rows[0].Name)
		assert.Equal(t, collection.StateFailed, ctrl.State())
		assert.Error(t, ctrl.Err())
	})
}

func TestControllerAdd(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("stamps organization and appends without refetch", func(t *testing.T) {
		orgID := uuid.New()
		gw := &fakeGateway{}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: orgID})

		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		added, err := ctrl.Add(ctx, actor, record{Name: "fuel", Amount: 150.00, Status: "paid"})
		require.NoError(t, err)

		assert.Equal(t, orgID, added.OrganizationID)
		assert.Equal(t, 150.00, added.Amount)

		rows := ctrl.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, added.ID, rows[0].ID)
	})

	t.Run("fails fast when organization cannot be resolved", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{err: domain.ErrOrganizationUnresolved})

		_, err := ctrl.Add(ctx, actor, record{Name: "fuel"})
		assert.ErrorIs(t, err, domain.ErrOrganizationUnresolved)
		assert.Empty(t, gw.rows, "no insert may be attempted")
	})

	t.Run("skips stamping when entity has no tenant", func(t *testing.T) {
		desc := descriptor()
		desc.SetOrganization = nil
		gw := &fakeGateway{}
		ctrl := collection.NewController(desc, gw, nil)

		added, err := ctrl.Add(ctx, actor, record{Name: "invite"})
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, added.OrganizationID)
	})
}

func TestControllerEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("updated row replaces the in-memory row", func(t *testing.T) {
		id := uuid.New()
		gw := &fakeGateway{rows: []record{{ID: id, Name: "before"}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		updated, err := ctrl.Edit(ctx, id, map[string]any{"name": "after"})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Name)

		rows := ctrl.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, "after", rows[0].Name)
	})

	t.Run("failed edit keeps rows and reports the error", func(t *testing.T) {
		id := uuid.New()
		gw := &fakeGateway{rows: []record{{ID: id, Name: "before"}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		gw.updErr = errors.New("constraint violation")
		_, err = ctrl.Edit(ctx, id, map[string]any{"name": "after"})
		assert.Error(t, err)

		rows := ctrl.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, "before", rows[0].Name)
	})
}

func TestControllerRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("requires explicit confirmation", func(t *testing.T) {
		id := uuid.New()
		gw := &fakeGateway{rows: []record{{ID: id}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		err := ctrl.Remove(ctx, id, false)
		assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
		assert.Len(t, gw.rows, 1, "no delete may be issued")
	})

	t.Run("removes present row", func(t *testing.T) {
		id := uuid.New()
		gw := &fakeGateway{rows: []record{{ID: id}, {ID: uuid.New()}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		_, err := ctrl.Load(ctx)
		require.NoError(t, err)

		require.NoError(t, ctrl.Remove(ctx, id, true))
		assert.Len(t, ctrl.Rows(), 1)
	})

	t.Run("absent id is an error, not a panic", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		err := ctrl.Remove(ctx, uuid.New(), true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestControllerGet(t *testing.T) {
	ctx := context.Background()

	t.Run("loads on demand", func(t *testing.T) {
		id := uuid.New()
		gw := &fakeGateway{rows: []record{{ID: id, Name: "lazy"}}}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		row, err := ctrl.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "lazy", row.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		gw := &fakeGateway{}
		ctrl := collection.NewController(descriptor(), gw, &fakeOrgResolver{orgID: uuid.New()})

		_, err := ctrl.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
