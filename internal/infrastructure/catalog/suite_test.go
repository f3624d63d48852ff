package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grosnap/backend/internal/domain"
)

// runCatalogSuite exercises every store against the same expectations
func runCatalogSuite(t *testing.T, c domain.Catalog) {
	t.Helper()
	ctx := context.Background()

	ownerID, err := c.CreateShopkeeper(ctx, domain.Shopkeeper{Name: "Ramesh", Email: "ramesh@example.com"})
	require.NoError(t, err)

	located, err := c.CreateShop(ctx, domain.Shop{
		Name:       "Sharma Kirana",
		Address:    "MG Road",
		Phone:      "9876543210",
		Coordinate: &domain.Coordinate{Latitude: 28.6139, Longitude: 77.2090},
		OwnerID:    ownerID,
	})
	require.NoError(t, err)

	unlocated, err := c.CreateShop(ctx, domain.Shop{Name: "Ownerless"})
	require.NoError(t, err)

	milkID, err := c.CreateProduct(ctx, domain.Product{ShopID: located, Name: "Amul Milk", Price: 30, Stock: 5, Category: "Dairy"})
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, domain.Product{ShopID: located, Name: "100% Atta", Price: 250, Stock: 2})
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, domain.Product{ShopID: unlocated, Name: "Milk Bread", Price: 45})
	require.NoError(t, err)

	t.Run("GetShopByID", func(t *testing.T) {
		shop, err := c.GetShopByID(ctx, located)
		require.NoError(t, err)
		assert.Equal(t, "Sharma Kirana", shop.Name)
		assert.Equal(t, "MG Road", shop.Address)
		assert.Equal(t, ownerID, shop.OwnerID)
		require.NotNil(t, shop.Coordinate)
		assert.InDelta(t, 28.6139, shop.Coordinate.Latitude, 1e-9)

		shop, err = c.GetShopByID(ctx, unlocated)
		require.NoError(t, err)
		assert.Nil(t, shop.Coordinate)
		assert.Zero(t, shop.OwnerID)

		_, err = c.GetShopByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListShops", func(t *testing.T) {
		shops, err := c.ListShops(ctx)
		require.NoError(t, err)
		require.Len(t, shops, 2)
		assert.Equal(t, located, shops[0].ID)
		assert.Equal(t, unlocated, shops[1].ID)
	})

	t.Run("SearchProductsByName", func(t *testing.T) {
		results, err := c.SearchProductsByName(ctx, "milk")
		require.NoError(t, err)
		assert.Len(t, results, 2)

		results, err = c.SearchProductsByName(ctx, "MILK BR")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Milk Bread", results[0].Name)

		// wildcards in the query are literal
		results, err = c.SearchProductsByName(ctx, "%")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "100% Atta", results[0].Name)

		results, err = c.SearchProductsByName(ctx, "saffron")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ListProductsForShop", func(t *testing.T) {
		products, err := c.ListProductsForShop(ctx, located)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Amul Milk", products[0].Name)
		assert.Equal(t, "Dairy", products[0].Category)

		products, err = c.ListProductsForShop(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("GetShopOwner", func(t *testing.T) {
		owner, err := c.GetShopOwner(ctx, located)
		require.NoError(t, err)
		assert.Equal(t, ownerID, owner.ID)
		assert.Equal(t, "ramesh@example.com", owner.Email)

		_, err = c.GetShopOwner(ctx, unlocated)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		err := c.UpdateProduct(ctx, domain.Product{ID: milkID, ShopID: located, Name: "Toned Milk", Price: 28, Stock: 9, Category: "Dairy"})
		require.NoError(t, err)

		p, err := c.GetProductByID(ctx, milkID)
		require.NoError(t, err)
		assert.Equal(t, "Toned Milk", p.Name)
		assert.Equal(t, 28.0, p.Price)
		assert.Equal(t, 9, p.Stock)

		err = c.UpdateProduct(ctx, domain.Product{ID: 9999, Name: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		require.NoError(t, c.DeleteProduct(ctx, milkID))

		_, err := c.GetProductByID(ctx, milkID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, c.DeleteProduct(ctx, milkID), domain.ErrNotFound)
	})
}
