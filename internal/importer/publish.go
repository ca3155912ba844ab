package importer

import (
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-web/internal/models"
)

// CatalogWriter is the write side of the catalog backend used when committing
// validated drafts.
type CatalogWriter interface {
	CatalogReader
	FindActiveByName(name string) (*models.Product, error)
	Insert(product *models.Product) error
	Update(product *models.Product) error
}

// PublishResult aggregates the outcome of one publish pass.
type PublishResult struct {
	PublishedCount int `json:"published_count"`
	SkippedCount   int `json:"skipped_count"`
	ErrorCount     int `json:"error_count"`
}

// PublishReconciler commits validated drafts to the catalog. Records are
// processed strictly in input order, one insert at a time, so publish,
// duplicate, and error outcomes are deterministic and no two records race on
// the same catalog name.
type PublishReconciler struct {
	catalog CatalogWriter
	log     *logrus.Logger
}

func NewPublishReconciler(catalog CatalogWriter, log *logrus.Logger) *PublishReconciler {
	return &PublishReconciler{catalog: catalog, log: log}
}

// PublishAll attempts to commit each validated or ready draft. A failure on
// one record is recorded on that record and the loop continues.
func (r *PublishReconciler) PublishAll(drafts []models.DraftRecord) PublishResult {
	var result PublishResult

	for i := range drafts {
		draft := &drafts[i]
		if draft.Status != models.DraftValidated && draft.Status != models.DraftReady {
			continue
		}

		existing, err := r.catalog.FindActiveByName(draft.Name)
		if err != nil {
			r.fail(draft, err.Error(), &result)
			continue
		}
		if existing != nil {
			draft.Status = models.DraftDuplicate
			draft.Errors = []string{"An active product with this name already exists"}
			result.SkippedCount++
			continue
		}

		if err := r.insert(draft); err != nil {
			r.fail(draft, err.Error(), &result)
			continue
		}

		draft.Status = models.DraftPublished
		draft.Errors = nil
		result.PublishedCount++
	}

	return result
}

// Resolve applies an operator decision for a flagged duplicate. Update is
// only meaningful when the match carries an existing product.
func (r *PublishReconciler) Resolve(draft *models.DraftRecord, match DuplicateMatch, resolution Resolution) error {
	switch action := resolution.(type) {
	case ResolveSkip:
		draft.Status = models.DraftDuplicate
		draft.Errors = []string{"Skipped by operator"}
		return nil

	case ResolvePublish:
		if err := r.insert(draft); err != nil {
			return err
		}
		draft.Status = models.DraftPublished
		draft.Errors = nil
		return nil

	case ResolveUpdate:
		updated := match.Existing
		updated.Description = draft.Description
		updated.Price = draft.Price
		updated.Unit = draft.Unit
		if draft.ImageURL != "" {
			updated.ImageURL = draft.ImageURL
		}
		if err := r.catalog.Update(&updated); err != nil {
			return err
		}
		draft.Status = models.DraftPublished
		draft.Errors = nil
		return nil

	case ResolveRename:
		if strings.TrimSpace(action.NewName) == "" {
			draft.Status = models.DraftError
			draft.Errors = append(draft.Errors, "New name is required to rename")
			return nil
		}
		draft.Name = strings.TrimSpace(action.NewName)
		if err := r.insert(draft); err != nil {
			return err
		}
		draft.Status = models.DraftPublished
		draft.Errors = nil
		return nil
	}

	return nil
}

func (r *PublishReconciler) insert(draft *models.DraftRecord) error {
	return r.catalog.Insert(&models.Product{
		Name:          draft.Name,
		Description:   draft.Description,
		Price:         draft.Price,
		Unit:          draft.Unit,
		Origin:        draft.Origin,
		CategoryID:    draft.CategoryID,
		ImageURL:      draft.ImageURL,
		IsActive:      true,
		IsTestProduct: true,
	})
}

func (r *PublishReconciler) fail(draft *models.DraftRecord, message string, result *PublishResult) {
	r.log.WithField("row", draft.RowIndex).Warnf("publish failed: %s", message)
	draft.Status = models.DraftError
	draft.Errors = append(draft.Errors, message)
	result.ErrorCount++
}
