// Package catalog holds the product and review records and their bun-backed
// repositories.
package catalog

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a catalog item. The owner is the account that created it.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Description   string    `bun:"description" json:"description"`
	Price         float64   `bun:"price,notnull" json:"price"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Review is a user's rating of a product.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rev"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Rate          int       `bun:"rate,notnull" json:"rate"`
	Comment       string    `bun:"comment" json:"comment"`
	ProductID     int64     `bun:"product_id,notnull" json:"product_id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
