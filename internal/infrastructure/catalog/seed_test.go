package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grosnap/backend/internal/domain"
)

const seedJSON = `{
  "shopkeepers": [
    {
      "name": "Ramesh",
      "email": "ramesh@example.com",
      "shop": {
        "name": "Sharma Kirana",
        "phone": "9876543210",
        "latitude": 28.61,
        "longitude": 77.20,
        "products": [
          {"name": "Milk", "price": 30, "stock": 10, "category": "Dairy"},
          {"name": "Bread", "price": 45, "stock": 4}
        ]
      }
    },
    {"name": "Investor", "email": "investor@example.com"}
  ]
}`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSeedAndApply(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedJSON))
	require.NoError(t, err)

	c := NewMemoryCatalog()
	stats, err := Apply(context.Background(), c, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Shopkeepers: 2, Shops: 1, Products: 2}, stats)

	shops, err := c.ListShops(context.Background())
	require.NoError(t, err)
	require.Len(t, shops, 1)
	require.NotNil(t, shops[0].Coordinate)

	owner, err := c.GetShopOwner(context.Background(), shops[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh", owner.Name)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed json",
			content: `{"shopkeepers": [`,
		},
		{
			name:    "missing email",
			content: `{"shopkeepers": [{"name": "x"}]}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "half a coordinate",
			content: `{"shopkeepers": [{"email": "a@b.c", "shop": {"name": "s", "latitude": 1}}]}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative price",
			content: `{"shopkeepers": [{"email": "a@b.c", "shop": {"name": "s", "products": [{"name": "p", "price": -1}]}}]}`,
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeed(t, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDemoSeed(t *testing.T) {
	c := NewMemoryCatalog()
	stats, err := Apply(context.Background(), c, DemoSeed())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Shops)
	assert.Equal(t, 24, stats.Products)

	results, err := c.SearchProductsByName(context.Background(), "carrot")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
