package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Unit          string          `db:"unit" json:"unit"`
	Origin        string          `db:"origin" json:"origin"`
	CategoryID    string          `db:"category_id" json:"category_id"`
	ImageURL      string          `db:"image_url" json:"image_url"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	IsTestProduct bool            `db:"is_test_product" json:"is_test_product"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
