package collection_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/domain"
)

// orgDirectory resolves each user to their own organization, like the user
// service does in production.
type orgDirectory map[uuid.UUID]uuid.UUID

func (d orgDirectory) OrganizationFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	orgID, ok := d[userID]
	if !ok {
		return uuid.Nil, domain.ErrOrganizationUnresolved
	}
	return orgID, nil
}

// newHub backs each organization with its own fake gateway so cross-tenant
// reads would be visible as rows leaking between gateways.
func newHub(orgs orgDirectory) (*collection.Hub[record], map[uuid.UUID]*fakeGateway) {
	gateways := make(map[uuid.UUID]*fakeGateway)
	hub := collection.NewHub(descriptor(), func(orgID uuid.UUID) collection.Gateway[record] {
		if gw, ok := gateways[orgID]; ok {
			return gw
		}
		gw := &fakeGateway{}
		gateways[orgID] = gw
		return gw
	}, orgs)
	return hub, gateways
}

func TestHubIsolatesOrganizations(t *testing.T) {
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	orgA, orgB := uuid.New(), uuid.New()
	hub, _ := newHub(orgDirectory{alice: orgA, bob: orgB})

	t.Run("rows added by one organization never appear in another", func(t *testing.T) {
		aliceCtrl, err := hub.For(ctx, alice)
		require.NoError(t, err)
		_, err = aliceCtrl.Load(ctx)
		require.NoError(t, err)

		added, err := aliceCtrl.Add(ctx, alice, record{Name: "fuel", Amount: 150.00, Status: "paid"})
		require.NoError(t, err)
		assert.Equal(t, orgA, added.OrganizationID)

		bobCtrl, err := hub.For(ctx, bob)
		require.NoError(t, err)
		rows, err := bobCtrl.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows, "another organization's rows must stay invisible")

		_, err = bobCtrl.Get(ctx, added.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("controllers are distinct per organization", func(t *testing.T) {
		aliceCtrl, err := hub.For(ctx, alice)
		require.NoError(t, err)
		bobCtrl, err := hub.For(ctx, bob)
		require.NoError(t, err)
		assert.NotSame(t, aliceCtrl, bobCtrl)
	})

	t.Run("users of the same organization share a controller", func(t *testing.T) {
		carol := uuid.New()
		hub, _ := newHub(orgDirectory{alice: orgA, carol: orgA})

		first, err := hub.For(ctx, alice)
		require.NoError(t, err)
		second, err := hub.For(ctx, carol)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestHubRequiresResolvedOrganization(t *testing.T) {
	ctx := context.Background()

	hub, gateways := newHub(orgDirectory{})
	_, err := hub.For(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrganizationUnresolved)
	assert.Empty(t, gateways, "no gateway may be built for an unresolved user")
}
