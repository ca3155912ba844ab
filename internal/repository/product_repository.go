package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"catalog-web/internal/models"
)

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindAll(limit, offset int, search string) ([]models.Product, int, error) {
	var products []models.Product
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = "WHERE name LIKE ? OR description LIKE ?"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM products %s ORDER BY name LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&products, query, args...); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) FindByID(id string) (*models.Product, error) {
	var product models.Product
	query := "SELECT * FROM products WHERE id = ? LIMIT 1"
	if err := r.db.Get(&product, query, id); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByName returns the active product with an exact (case-insensitive
// under the default collation) name match, or nil when there is none.
func (r *ProductRepository) FindActiveByName(name string) (*models.Product, error) {
	var product models.Product
	query := "SELECT * FROM products WHERE name = ? AND is_active = 1 LIMIT 1"
	err := r.db.Get(&product, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindActiveByCategory(categoryID string) ([]models.Product, error) {
	var products []models.Product
	query := "SELECT * FROM products WHERE category_id = ? AND is_active = 1 ORDER BY name"
	if err := r.db.Select(&products, query, categoryID); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Insert(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `INSERT INTO products (id, name, description, price, unit, origin, category_id,
	          image_url, is_active, is_test_product)
	          VALUES (:id, :name, :description, :price, :unit, :origin, :category_id,
	          :image_url, :is_active, :is_test_product)`
	_, err := r.db.NamedExec(query, product)
	return err
}

func (r *ProductRepository) Update(product *models.Product) error {
	query := `UPDATE products SET name = :name, description = :description, price = :price,
	          unit = :unit, origin = :origin, category_id = :category_id,
	          image_url = :image_url, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, product)
	return err
}

func (r *ProductRepository) Delete(id string) error {
	query := "DELETE FROM products WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}
