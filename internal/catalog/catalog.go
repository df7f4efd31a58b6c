// Package catalog holds the store's products and discount codes.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDiscountNotFound = errors.New("discount code not found")
)

type Product struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Category    string  `yaml:"category" json:"category"`
	Price       float64 `yaml:"price" json:"price"`
	Stock       int     `yaml:"stock" json:"stock"`
	Description string  `yaml:"description" json:"description"`
}

type Discount struct {
	Code     string  `yaml:"code" json:"code"`
	Percent  float64 `yaml:"percent" json:"percent"`
	MinTotal float64 `yaml:"min_total" json:"min_total"`
	Active   bool    `yaml:"active" json:"active"`
}

type Catalog struct {
	Products  []Product  `yaml:"products"`
	Discounts []Discount `yaml:"discounts"`
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path yields the bundled catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has a negative price", p.ID)
		}
		seen[p.ID] = true
	}
	return &c, nil
}

// Find looks a product up by id or by name, ignoring case
func (c *Catalog) Find(idOrName string) (Product, error) {
	key := strings.TrimSpace(idOrName)
	for _, p := range c.Products {
		if strings.EqualFold(p.ID, key) || strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, idOrName)
}

// Search matches every query word against name, category and description.
// Results are ordered by price, cheapest first.
func (c *Catalog) Search(query, category string, maxPrice float64, limit int) []Product {
	words := strings.Fields(strings.ToLower(query))
	result := make([]Product, 0)

	for _, p := range c.Products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		haystack := strings.ToLower(p.Name + " " + p.Category + " " + p.Description)
		matched := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Price < result[j].Price
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (c *Catalog) Discount(code string) (Discount, error) {
	key := strings.TrimSpace(code)
	for _, d := range c.Discounts {
		if strings.EqualFold(d.Code, key) {
			return d, nil
		}
	}
	return Discount{}, fmt.Errorf("%w: %s", ErrDiscountNotFound, code)
}

// Categories lists the distinct product categories
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var result []string
	for _, p := range c.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			result = append(result, p.Category)
		}
	}
	sort.Strings(result)
	return result
}
