package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptobazaar/internal/domain"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"
)

func newCartSvc(t *testing.T) (*services.CartService, *repos.CartRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	carts := repos.NewCartRepo(db)
	return services.NewCartService(carts, repos.NewProductRepo(db)), carts
}

func TestCartServiceRequiresUser(t *testing.T) {
	svc, _ := newCartSvc(t)
	assert.ErrorIs(t, svc.Add("", "tee-classic"), services.ErrUnauthenticated)
	_, err := svc.View("")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestCartServiceAddUnknownProduct(t *testing.T) {
	svc, _ := newCartSvc(t)
	assert.Error(t, svc.Add("u-alice", "no-such-product"))

	view, err := svc.View("u-alice")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartServiceMutationFlow(t *testing.T) {
	svc, _ := newCartSvc(t)

	require.NoError(t, svc.Add("u-alice", "tee-classic"))
	require.NoError(t, svc.Add("u-alice", "tee-classic"))
	require.NoError(t, svc.Add("u-alice", "cap-sat"))
	require.NoError(t, svc.SetQuantity("u-alice", "cap-sat", 3))

	view, err := svc.View("u-alice")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 5, view.TotalItems)
	// 2×24.99 + 3×19.50
	assert.True(t, view.Total.Equal(decimal.RequireFromString("108.48")), "got %s", view.Total)

	require.NoError(t, svc.SetQuantity("u-alice", "tee-classic", 0))
	require.NoError(t, svc.Remove("u-alice", "cap-sat"))

	view, err = svc.View("u-alice")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartServiceRemoveAbsentIsNoop(t *testing.T) {
	svc, _ := newCartSvc(t)
	require.NoError(t, svc.Add("u-alice", "tee-classic"))
	require.NoError(t, svc.Remove("u-alice", "hub-usbc"))

	view, err := svc.View("u-alice")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "tee-classic", view.Items[0].Product.ID)
}

// Two sessions syncing the same cart: the mirror reflects whichever full
// replacement landed last.
func TestCartMirrorLastWriteWins(t *testing.T) {
	_, carts := newCartSvc(t)

	first := []domain.CartItem{
		{Product: product("tee-classic", "24.99"), Quantity: 1},
		{Product: product("cap-sat", "19.50"), Quantity: 2},
	}
	second := []domain.CartItem{
		{Product: product("hub-usbc", "42.00"), Quantity: 1},
	}

	require.NoError(t, carts.Replace("u-alice", first))
	require.NoError(t, carts.Replace("u-alice", second))

	rows, err := carts.ItemsByUser("u-alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hub-usbc", rows[0].ProductID)
	assert.Equal(t, 1, rows[0].Quantity)
}

func TestCartServiceIsolatesUsers(t *testing.T) {
	svc, _ := newCartSvc(t)
	require.NoError(t, svc.Add("u-alice", "tee-classic"))
	require.NoError(t, svc.Add("u-bob", "hub-usbc"))

	alice, err := svc.View("u-alice")
	require.NoError(t, err)
	bob, err := svc.View("u-bob")
	require.NoError(t, err)

	require.Len(t, alice.Items, 1)
	require.Len(t, bob.Items, 1)
	assert.Equal(t, "tee-classic", alice.Items[0].Product.ID)
	assert.Equal(t, "hub-usbc", bob.Items[0].Product.ID)
}
