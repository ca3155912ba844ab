package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"catalog-web/internal/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAllActive() ([]models.Category, error) {
	var categories []models.Category
	query := "SELECT * FROM categories WHERE is_active = 1 ORDER BY name"
	if err := r.db.Select(&categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(id string) (*models.Category, error) {
	var category models.Category
	query := "SELECT * FROM categories WHERE id = ? LIMIT 1"
	if err := r.db.Get(&category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	query := `INSERT INTO categories (id, name, description, is_active)
	          VALUES (:id, :name, :description, :is_active)`
	_, err := r.db.NamedExec(query, category)
	return err
}

func (r *CategoryRepository) Update(category *models.Category) error {
	query := `UPDATE categories SET name = :name, description = :description,
	          is_active = :is_active WHERE id = :id`
	_, err := r.db.NamedExec(query, category)
	return err
}
