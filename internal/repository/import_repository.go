package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"catalog-web/internal/models"
)

type ImportRepository struct {
	db *sqlx.DB
}

func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) CreateJob(job *models.ImportJob) error {
	query := `INSERT INTO import_jobs (job_code, user_id, filename, content_hash,
	          total_rows, valid_rows, error_rows, exchange_rate, status)
	          VALUES (:job_code, :user_id, :filename, :content_hash,
	          :total_rows, :valid_rows, :error_rows, :exchange_rate, :status)`
	result, err := r.db.NamedExec(query, job)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	job.ID = int(id)
	return nil
}

func (r *ImportRepository) GetJobByID(id int) (*models.ImportJob, error) {
	var job models.ImportJob
	query := "SELECT * FROM import_jobs WHERE id = ? LIMIT 1"
	if err := r.db.Get(&job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportRepository) GetJobByCode(jobCode string) (*models.ImportJob, error) {
	var job models.ImportJob
	query := "SELECT * FROM import_jobs WHERE job_code = ? LIMIT 1"
	if err := r.db.Get(&job, query, jobCode); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobByHash looks up a previous upload of the same file content. Used to
// warn the user before they import the same spreadsheet twice.
func (r *ImportRepository) GetJobByHash(contentHash string) (*models.ImportJob, error) {
	var job models.ImportJob
	query := "SELECT * FROM import_jobs WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1"
	err := r.db.Get(&job, query, contentHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportRepository) GetJobs(userID int, limit, offset int) ([]models.ImportJob, int, error) {
	var jobs []models.ImportJob
	var total int

	whereClause := ""
	args := []interface{}{}
	if userID > 0 {
		whereClause = "WHERE user_id = ?"
		args = append(args, userID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM import_jobs %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM import_jobs %s ORDER BY created_at DESC LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&jobs, query, args...); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *ImportRepository) UpdateJob(job *models.ImportJob) error {
	query := `UPDATE import_jobs SET total_rows = :total_rows, valid_rows = :valid_rows,
	          error_rows = :error_rows, published_rows = :published_rows,
	          skipped_rows = :skipped_rows, status = :status,
	          error_message = :error_message WHERE id = :id`
	_, err := r.db.NamedExec(query, job)
	return err
}

func (r *ImportRepository) UpdateJobStatus(id int, status, errorMessage string) error {
	query := "UPDATE import_jobs SET status = ?, error_message = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, errorMessage, id)
	return err
}

func (r *ImportRepository) BulkInsertItems(items []models.ImportItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO import_items (job_id, row_index, name, description, unit, origin,
	          price, category_id, category_hint, image_url, has_embedded_image, status, errors)
	          VALUES (:job_id, :row_index, :name, :description, :unit, :origin,
	          :price, :category_id, :category_hint, :image_url, :has_embedded_image, :status, :errors)`
	_, err := r.db.NamedExec(query, items)
	return err
}

func (r *ImportRepository) GetItemsByJob(jobID int) ([]models.ImportItem, error) {
	var items []models.ImportItem
	query := "SELECT * FROM import_items WHERE job_id = ? ORDER BY row_index"
	if err := r.db.Select(&items, query, jobID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ImportRepository) GetItemsByJobPaginated(jobID, limit, offset int, status string) ([]models.ImportItem, int, error) {
	var items []models.ImportItem
	var total int

	whereClause := "WHERE job_id = ?"
	args := []interface{}{jobID}
	if status != "" {
		whereClause += " AND status = ?"
		args = append(args, status)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM import_items %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM import_items %s ORDER BY row_index LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&items, query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *ImportRepository) UpdateItem(item *models.ImportItem) error {
	query := `UPDATE import_items SET name = :name, description = :description, unit = :unit,
	          origin = :origin, price = :price, category_id = :category_id,
	          image_url = :image_url, status = :status, errors = :errors
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, item)
	return err
}

func (r *ImportRepository) UpdateItemsStatus(jobID int, fromStatus, toStatus string) error {
	query := "UPDATE import_items SET status = ? WHERE job_id = ? AND status = ?"
	_, err := r.db.Exec(query, toStatus, jobID, fromStatus)
	return err
}

// DeleteJob removes a job together with all of its items.
func (r *ImportRepository) DeleteJob(id int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM import_items WHERE job_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM import_jobs WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
