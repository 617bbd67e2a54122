package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product categories exposed by the storefront.
const (
	CategoryClothes     = "clothes"
	CategoryAccessories = "accessories"
	CategoryTech        = "tech"
)

// Product is read-only reference data owned by the catalog tables.
type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	ImagesJSON  string          `db:"images_json"`
	Category    string          `db:"category"` // clothes | accessories | tech
	Featured    bool            `db:"featured"`
	Stock       int             `db:"stock"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// Images decodes the ordered image URI list. A broken blob yields nil.
func (p Product) Images() []string {
	var out []string
	_ = json.Unmarshal([]byte(p.ImagesJSON), &out)
	return out
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// CartItem is one line of the in-session cart. Quantity is always >= 1;
// a zero quantity means the line is removed, never stored.
type CartItem struct {
	Product  Product
	Quantity int
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
