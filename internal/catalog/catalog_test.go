package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Products)
	require.Contains(t, c.Categories(), "laptops")
}

func TestFind(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	byID, err := c.Find("ACC-001")
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse", byID.Name)

	byName, err := c.Find(" wireless mouse ")
	require.NoError(t, err)
	require.Equal(t, "acc-001", byName.ID)

	_, err = c.Find("toaster")
	require.True(t, errors.Is(err, ErrProductNotFound))
}

func TestSearch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		category string
		maxPrice float64
		limit    int
		wantIDs  []string
	}{
		{name: "by word", query: "laptop", wantIDs: []string{"acc-003", "lap-002", "lap-001"}},
		{name: "category filter", query: "laptop", category: "laptops", wantIDs: []string{"lap-002", "lap-001"}},
		{name: "max price", query: "smartphone", maxPrice: 500, wantIDs: []string{"pho-002"}},
		{name: "all words must match", query: "wireless keyboard"},
		{name: "limit", query: "", category: "accessories", limit: 2, wantIDs: []string{"acc-001", "acc-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query, tt.category, tt.maxPrice, tt.limit)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if len(tt.wantIDs) == 0 {
				require.Empty(t, ids)
				return
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDiscount(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	d, err := c.Discount("tech20")
	require.NoError(t, err)
	require.Equal(t, 20.0, d.Percent)

	_, err = c.Discount("FREE")
	require.True(t, errors.Is(err, ErrDiscountNotFound))
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte("products:\n  - {id: a, name: A, price: 1}\n  - {id: a, name: B, price: 2}\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}
