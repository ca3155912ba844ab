package models

import "time"

type ImportJob struct {
	ID            int       `db:"id" json:"id"`
	JobCode       string    `db:"job_code" json:"job_code"`
	UserID        int       `db:"user_id" json:"user_id"`
	Filename      string    `db:"filename" json:"filename"`
	ContentHash   string    `db:"content_hash" json:"content_hash"`
	TotalRows     int       `db:"total_rows" json:"total_rows"`
	ValidRows     int       `db:"valid_rows" json:"valid_rows"`
	ErrorRows     int       `db:"error_rows" json:"error_rows"`
	PublishedRows int       `db:"published_rows" json:"published_rows"`
	SkippedRows   int       `db:"skipped_rows" json:"skipped_rows"`
	ExchangeRate  float64   `db:"exchange_rate" json:"exchange_rate"`
	Status        string    `db:"status" json:"status"`
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ImportItem is the persisted form of a DraftRecord once a session ends. Items
// are owned by exactly one job and deleted with it.
type ImportItem struct {
	ID               int64     `db:"id" json:"id"`
	JobID            int       `db:"job_id" json:"job_id"`
	RowIndex         int       `db:"row_index" json:"row_index"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description"`
	Unit             string    `db:"unit" json:"unit"`
	Origin           string    `db:"origin" json:"origin"`
	Price            float64   `db:"price" json:"price"`
	CategoryID       string    `db:"category_id" json:"category_id"`
	CategoryHint     string    `db:"category_hint" json:"category_hint"`
	ImageURL         string    `db:"image_url" json:"image_url"`
	HasEmbeddedImage bool      `db:"has_embedded_image" json:"has_embedded_image"`
	Status           string    `db:"status" json:"status"`
	Errors           string    `db:"errors" json:"errors"` // newline separated
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
