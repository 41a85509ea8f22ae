package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shestoi/productcatalog/internal/repository"
)

func TestDefault(t *testing.T) {
	products := Default()

	require.Len(t, products, 5)
	require.Equal(t, "OLJCESPC7Z", products[0].ID)
	require.Equal(t, "Vintage Typewriter", products[0].Name)
	require.Equal(t, int64(67), products[0].Price.Units)
	require.Equal(t, int32(990000000), products[0].Price.Nanos)
	require.NoError(t, Validate(products))
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	first := Default()
	first[0].Name = "mutated"
	first[0].Categories[0] = "mutated"

	second := Default()

	require.Equal(t, "Vintage Typewriter", second[0].Name)
	require.Equal(t, []string{"vintage"}, second[0].Categories)
}

func TestValidate(t *testing.T) {
	valid := func() []repository.Product { return Default() }

	tests := []struct {
		name          string
		products      func() []repository.Product
		errorContains string
	}{
		{
			name:     "default catalog is valid",
			products: valid,
		},
		{
			name:          "empty catalog",
			products:      func() []repository.Product { return nil },
			errorContains: "catalog is empty",
		},
		{
			name: "missing product id",
			products: func() []repository.Product {
				p := valid()
				p[2].ID = ""
				return p
			},
			errorContains: "product id is required",
		},
		{
			name: "duplicate product id",
			products: func() []repository.Product {
				p := valid()
				p[1].ID = p[0].ID
				return p
			},
			errorContains: "duplicate product id",
		},
		{
			name: "missing name",
			products: func() []repository.Product {
				p := valid()
				p[0].Name = ""
				return p
			},
			errorContains: "name is required",
		},
		{
			name: "missing currency code",
			products: func() []repository.Product {
				p := valid()
				p[0].Price.CurrencyCode = ""
				return p
			},
			errorContains: "currency_code is required",
		},
		{
			name: "negative units",
			products: func() []repository.Product {
				p := valid()
				p[0].Price.Units = -1
				return p
			},
			errorContains: "units must be non-negative",
		},
		{
			name: "negative nanos",
			products: func() []repository.Product {
				p := valid()
				p[0].Price.Nanos = -1
				return p
			},
			errorContains: "nanos must be in",
		},
		{
			name: "nanos above a whole unit",
			products: func() []repository.Product {
				p := valid()
				p[0].Price.Nanos = 1000000000
				return p
			},
			errorContains: "nanos must be in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.products())

			if tt.errorContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		// Arrange
		raw := `{
			"products": [
				{
					"id": "TEST1",
					"name": "Test Product",
					"description": "A product from a file.",
					"picture": "/static/img/products/test.jpg",
					"price_usd": {"currency_code": "USD", "units": 9, "nanos": 500000000},
					"categories": ["testing", "fixtures"]
				}
			]
		}`
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		// Act
		products, err := LoadFile(path)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.Equal(t, repository.Product{
			ID:          "TEST1",
			Name:        "Test Product",
			Description: "A product from a file.",
			Picture:     "/static/img/products/test.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 9, Nanos: 500000000},
			Categories:  []string{"testing", "fixtures"},
		}, products[0])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))

		require.Error(t, err)
		require.Contains(t, err.Error(), "read catalog file")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadFile(path)

		require.Error(t, err)
		require.Contains(t, err.Error(), "parse catalog file")
	})
}
