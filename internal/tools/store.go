package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rorical/StoreAgent/internal/catalog"
	"github.com/Rorical/StoreAgent/internal/llm"
)

const defaultSearchLimit = 5

// RegisterStoreTools registers the product tools backed by the catalog
func RegisterStoreTools(registry *Registry, c *catalog.Catalog) error {
	for _, tool := range []Tool{
		&CalculatePriceTool{catalog: c},
		&SearchProductsTool{catalog: c},
		&SumPricesTool{},
		&VerifyDiscountTool{catalog: c},
	} {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// CalculatePriceTool prices a quantity of a catalog product
type CalculatePriceTool struct {
	catalog *catalog.Catalog
}

func (t *CalculatePriceTool) Name() string {
	return "calculate_price"
}

func (t *CalculatePriceTool) Description() string {
	return "Calculate the total price for a quantity of a product, looked up by id or exact name"
}

func (t *CalculatePriceTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"product": {
				Type:        llm.TypeString,
				Description: "Product id (e.g. lap-001) or exact product name",
			},
			"quantity": {
				Type:        llm.TypeInteger,
				Description: "Number of units, at least 1",
			},
		},
		Required: []string{"product", "quantity"},
	}
}

type PriceQuote struct {
	ProductID string  `json:"product_id"`
	Product   string  `json:"product"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	InStock   bool    `json:"in_stock"`
}

func (t *CalculatePriceTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgs)
	}

	product, err := t.catalog.Find(in.Product)
	if err != nil {
		return nil, err
	}

	return PriceQuote{
		ProductID: product.ID,
		Product:   product.Name,
		UnitPrice: product.Price,
		Quantity:  in.Quantity,
		Total:     roundMoney(product.Price * float64(in.Quantity)),
		InStock:   product.Stock >= in.Quantity,
	}, nil
}

// SearchProductsTool finds catalog products matching a free-text query
type SearchProductsTool struct {
	catalog *catalog.Catalog
}

func (t *SearchProductsTool) Name() string {
	return "search_products"
}

func (t *SearchProductsTool) Description() string {
	return "Search the store catalog by keywords, optionally filtered by category and maximum price"
}

func (t *SearchProductsTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"query": {
				Type:        llm.TypeString,
				Description: "Keywords to look for in product name, category and description",
			},
			"category": {
				Type:        llm.TypeString,
				Description: "Optional category filter, one of: " + strings.Join(t.catalog.Categories(), ", "),
			},
			"max_price": {
				Type:        llm.TypeNumber,
				Description: "Optional maximum unit price",
			},
			"limit": {
				Type:        llm.TypeInteger,
				Description: "Maximum number of results (default: 5)",
			},
		},
		Required: []string{"query"},
	}
}

type SearchResult struct {
	Count    int               `json:"count"`
	Products []catalog.Product `json:"products"`
}

func (t *SearchProductsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Query    string  `json:"query"`
		Category string  `json:"category"`
		MaxPrice float64 `json:"max_price"`
		Limit    int     `json:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: max_price cannot be negative", ErrInvalidArgs)
	}
	if in.Limit <= 0 {
		in.Limit = defaultSearchLimit
	}

	products := t.catalog.Search(in.Query, in.Category, in.MaxPrice, in.Limit)
	return SearchResult{Count: len(products), Products: products}, nil
}

// SumPricesTool adds up a list of prices
type SumPricesTool struct{}

func (t *SumPricesTool) Name() string {
	return "sum_prices"
}

func (t *SumPricesTool) Description() string {
	return "Add up a list of prices and return the total"
}

func (t *SumPricesTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"prices": {
				Type:        llm.TypeArray,
				Description: "Prices to add",
				Items:       &llm.Schema{Type: llm.TypeNumber},
			},
		},
		Required: []string{"prices"},
	}
}

func (t *SumPricesTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Prices []float64 `json:"prices"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	total := 0.0
	for _, p := range in.Prices {
		if p < 0 {
			return nil, fmt.Errorf("%w: prices cannot be negative", ErrInvalidArgs)
		}
		total += p
	}
	return map[string]any{
		"count": len(in.Prices),
		"total": roundMoney(total),
	}, nil
}

// VerifyDiscountTool checks a discount code against an order total
type VerifyDiscountTool struct {
	catalog *catalog.Catalog
}

func (t *VerifyDiscountTool) Name() string {
	return "verify_discount"
}

func (t *VerifyDiscountTool) Description() string {
	return "Check whether a discount code applies to an order total and compute the discounted total"
}

func (t *VerifyDiscountTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"code": {
				Type:        llm.TypeString,
				Description: "Discount code given by the customer",
			},
			"total": {
				Type:        llm.TypeNumber,
				Description: "Order total before the discount",
			},
		},
		Required: []string{"code", "total"},
	}
}

type DiscountCheck struct {
	Code       string  `json:"code"`
	Valid      bool    `json:"valid"`
	Percent    float64 `json:"percent"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"final_total"`
	Reason     string  `json:"reason,omitempty"`
}

func (t *VerifyDiscountTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Code  string  `json:"code"`
		Total float64 `json:"total"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Total < 0 {
		return nil, fmt.Errorf("%w: total cannot be negative", ErrInvalidArgs)
	}

	check := DiscountCheck{Code: in.Code, FinalTotal: roundMoney(in.Total)}
	discount, err := t.catalog.Discount(in.Code)
	switch {
	case errors.Is(err, catalog.ErrDiscountNotFound):
		check.Reason = "unknown code"
		return check, nil
	case err != nil:
		return nil, err
	case !discount.Active:
		check.Reason = "code has expired"
		return check, nil
	case in.Total < discount.MinTotal:
		check.Reason = fmt.Sprintf("order total must be at least %.2f", discount.MinTotal)
		return check, nil
	}

	check.Code = discount.Code
	check.Valid = true
	check.Percent = discount.Percent
	check.Discount = roundMoney(in.Total * discount.Percent / 100)
	check.FinalTotal = roundMoney(in.Total - check.Discount)
	return check, nil
}
