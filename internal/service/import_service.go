package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"catalog-web/internal/config"
	"catalog-web/internal/importer"
	"catalog-web/internal/models"
)

// Job lifecycle states.
const (
	JobStatusDraft      = "draft"
	JobStatusReady      = "ready"
	JobStatusPublishing = "publishing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ImportStore is the slice of the import repository the service needs.
type ImportStore interface {
	CreateJob(job *models.ImportJob) error
	GetJobByID(id int) (*models.ImportJob, error)
	GetJobByHash(contentHash string) (*models.ImportJob, error)
	UpdateJob(job *models.ImportJob) error
	BulkInsertItems(items []models.ImportItem) error
	GetItemsByJob(jobID int) ([]models.ImportItem, error)
	UpdateItem(item *models.ImportItem) error
}

// CategoryStore resolves categories during assignment and validation.
type CategoryStore interface {
	FindByID(id string) (*models.Category, error)
	FindAllActive() ([]models.Category, error)
}

// PublishEnqueuer queues the background publish step for a job whose drafts
// all validated. A nil enqueuer leaves publishing to an explicit request.
type PublishEnqueuer interface {
	EnqueuePublish(jobID int, jobCode string) error
}

// ImportService drives one import job from uploaded workbook to persisted
// draft items and hands the publish step to the background worker.
type ImportService struct {
	importRepo   ImportStore
	productRepo  importer.CatalogWriter
	categoryRepo CategoryStore
	workbook     *WorkbookService
	locator      *importer.ImageLocator
	enqueuer     PublishEnqueuer
	cfg          *config.Config
	log          *logrus.Logger
}

func NewImportService(
	importRepo ImportStore,
	productRepo importer.CatalogWriter,
	categoryRepo CategoryStore,
	workbook *WorkbookService,
	locator *importer.ImageLocator,
	cfg *config.Config,
	log *logrus.Logger,
) *ImportService {
	return &ImportService{
		importRepo:   importRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		workbook:     workbook,
		locator:      locator,
		cfg:          cfg,
		log:          log,
	}
}

// SetPublishEnqueuer enables automatic publishing once a job fully validates.
func (s *ImportService) SetPublishEnqueuer(enqueuer PublishEnqueuer) {
	s.enqueuer = enqueuer
}

// FindPreviousUpload returns the most recent job that imported the same file
// content, if any. The caller decides whether to warn or proceed.
func (s *ImportService) FindPreviousUpload(contentHash string) (*models.ImportJob, error) {
	return s.importRepo.GetJobByHash(contentHash)
}

// StartImport runs the draft pipeline on an uploaded workbook:
// classification, image extraction, and draft building. Drafts leave the
// builder as pending or error; category resolution and full validation happen
// later, so a freshly uploaded row without a category still counts as valid.
// The resulting job and its items are persisted before returning.
func (s *ImportService) StartImport(ctx context.Context, userID int, jobCode, filename, filePath, contentHash string) (*models.ImportJob, []models.DraftRecord, error) {
	rows, err := s.workbook.ReadGrid(filePath)
	if err != nil {
		return nil, nil, err
	}

	candidates := importer.ClassifyRows(rows)

	mappings, summary, err := s.locator.Locate(ctx, filePath, jobCode)
	if err != nil {
		// Images are best effort. A workbook with no readable drawing parts
		// still imports, just without bound images.
		s.log.WithError(err).WithField("job_code", jobCode).Warn("image extraction failed")
		mappings = nil
	}

	drafts := importer.NewDraftBuilder(s.cfg.DefaultExchangeRate).Build(candidates, mappings)

	validCount := 0
	errorCount := 0
	for i := range drafts {
		if drafts[i].Status == models.DraftError {
			errorCount++
		} else {
			validCount++
		}
	}

	job := &models.ImportJob{
		JobCode:      jobCode,
		UserID:       userID,
		Filename:     filename,
		ContentHash:  contentHash,
		TotalRows:    len(drafts),
		ValidRows:    validCount,
		ErrorRows:    errorCount,
		ExchangeRate: s.cfg.DefaultExchangeRate,
		Status:       JobStatusDraft,
	}
	if err := s.importRepo.CreateJob(job); err != nil {
		return nil, nil, fmt.Errorf("failed to create import job: %w", err)
	}

	items := make([]models.ImportItem, 0, len(drafts))
	for i := range drafts {
		items = append(items, itemFromDraft(job.ID, &drafts[i]))
	}
	if err := s.importRepo.BulkInsertItems(items); err != nil {
		return nil, nil, fmt.Errorf("failed to persist draft items: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"job_code":     jobCode,
		"total_rows":   len(drafts),
		"valid_rows":   validCount,
		"error_rows":   errorCount,
		"image_count":  summary.TotalImages,
		"image_method": summary.Method,
	}).Info("import job created")

	return job, drafts, nil
}

// AssignCategory applies one category to every draft in the job.
func (s *ImportService) AssignCategory(jobID int, categoryID string) ([]models.DraftRecord, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	drafts, err := s.loadDrafts(jobID)
	if err != nil {
		return nil, err
	}

	importer.AssignCategoryAll(drafts, categoryID)

	if err := s.saveDrafts(jobID, drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ValidateJob revalidates every draft and reports whether the job is ready to
// publish. Category hints are resolved against the live category list. When
// every draft validates and an enqueuer is configured, the publish step is
// queued immediately; an enqueue failure leaves the job in ready so the
// operator can publish manually.
func (s *ImportService) ValidateJob(jobID int) ([]models.DraftRecord, bool, error) {
	drafts, err := s.loadDrafts(jobID)
	if err != nil {
		return nil, false, err
	}

	categories, err := s.categoryRepo.FindAllActive()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load categories: %w", err)
	}

	allValid := importer.ValidateAll(drafts, categories)

	if err := s.saveDrafts(jobID, drafts); err != nil {
		return nil, false, err
	}

	if allValid {
		job, err := s.importRepo.GetJobByID(jobID)
		if err != nil {
			return nil, false, err
		}
		job.Status = JobStatusReady
		if s.enqueuer != nil {
			if err := s.enqueuer.EnqueuePublish(job.ID, job.JobCode); err != nil {
				s.log.WithError(err).WithField("job_code", job.JobCode).Warn("failed to queue auto publish")
			} else {
				job.Status = JobStatusPublishing
			}
		}
		if err := s.importRepo.UpdateJob(job); err != nil {
			return nil, false, err
		}
	}

	return drafts, allValid, nil
}

// DetectDuplicates flags drafts that collide with active catalog products.
// Flagged drafts move to duplicate status until resolved; validated drafts
// that clear the check are promoted to ready.
func (s *ImportService) DetectDuplicates(jobID int) ([]importer.DuplicateMatch, error) {
	drafts, err := s.loadDrafts(jobID)
	if err != nil {
		return nil, err
	}

	detector := importer.NewDuplicateDetector(s.productRepo)
	matches, err := detector.Detect(drafts)
	if err != nil {
		return nil, err
	}

	flagged := make(map[int]importer.DuplicateMatch, len(matches))
	for _, match := range matches {
		flagged[match.RowIndex] = match
	}
	for i := range drafts {
		if match, ok := flagged[drafts[i].RowIndex]; ok {
			drafts[i].Status = models.DraftDuplicate
			drafts[i].Errors = []string{duplicateMessage(match)}
		} else if drafts[i].Status == models.DraftValidated {
			drafts[i].Status = models.DraftReady
		}
	}

	if err := s.saveDrafts(jobID, drafts); err != nil {
		return nil, err
	}
	return matches, nil
}

// ResolveDuplicate applies the chosen resolution to one flagged draft.
func (s *ImportService) ResolveDuplicate(jobID, rowIndex int, resolution importer.Resolution) (*models.DraftRecord, error) {
	drafts, err := s.loadDrafts(jobID)
	if err != nil {
		return nil, err
	}

	var draft *models.DraftRecord
	for i := range drafts {
		if drafts[i].RowIndex == rowIndex {
			draft = &drafts[i]
			break
		}
	}
	if draft == nil {
		return nil, fmt.Errorf("no draft at row %d", rowIndex)
	}
	if draft.Status != models.DraftDuplicate {
		return nil, fmt.Errorf("draft at row %d is not flagged as duplicate", rowIndex)
	}

	existing, err := s.productRepo.FindActiveByName(draft.Name)
	if err != nil {
		return nil, err
	}
	match := importer.DuplicateMatch{RowIndex: rowIndex, Type: importer.MatchSimilar}
	if existing != nil {
		match.Existing = *existing
		match.Type = importer.MatchExact
		match.Score = 100
	}

	reconciler := importer.NewPublishReconciler(s.productRepo, s.log)
	if err := reconciler.Resolve(draft, match, resolution); err != nil {
		return nil, err
	}

	if err := s.saveDrafts(jobID, drafts); err != nil {
		return nil, err
	}
	return draft, nil
}

// PublishJob commits every validated item to the catalog. Called from the
// background worker, not from request handlers.
func (s *ImportService) PublishJob(ctx context.Context, jobID int, progress *redis.Client) error {
	job, err := s.importRepo.GetJobByID(jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job.Status == JobStatusCompleted {
		s.log.WithField("job_code", job.JobCode).Info("job already completed, skipping")
		return nil
	}

	drafts, err := s.loadDrafts(jobID)
	if err != nil {
		return err
	}

	reconciler := importer.NewPublishReconciler(s.productRepo, s.log)
	result := reconciler.PublishAll(drafts)

	if err := s.saveDrafts(jobID, drafts); err != nil {
		return err
	}

	job.PublishedRows = result.PublishedCount
	job.SkippedRows = result.SkippedCount
	job.Status = JobStatusCompleted
	if result.ErrorCount > 0 {
		job.ErrorMessage = fmt.Sprintf("%d records failed to publish", result.ErrorCount)
	}
	if err := s.importRepo.UpdateJob(job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if progress != nil {
		progressKey := fmt.Sprintf("import:progress:%d", jobID)
		progress.Set(ctx, progressKey, "100.00", 0)
	}

	s.log.WithFields(logrus.Fields{
		"job_code":  job.JobCode,
		"published": result.PublishedCount,
		"skipped":   result.SkippedCount,
		"errors":    result.ErrorCount,
	}).Info("publish completed")

	return nil
}

func (s *ImportService) loadDrafts(jobID int) ([]models.DraftRecord, error) {
	items, err := s.importRepo.GetItemsByJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	drafts := make([]models.DraftRecord, 0, len(items))
	for i := range items {
		drafts = append(drafts, draftFromItem(&items[i]))
	}
	return drafts, nil
}

func (s *ImportService) saveDrafts(jobID int, drafts []models.DraftRecord) error {
	items, err := s.importRepo.GetItemsByJob(jobID)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	byRow := make(map[int]*models.ImportItem, len(items))
	for i := range items {
		byRow[items[i].RowIndex] = &items[i]
	}

	for i := range drafts {
		item, ok := byRow[drafts[i].RowIndex]
		if !ok {
			continue
		}
		applyDraft(item, &drafts[i])
		if err := s.importRepo.UpdateItem(item); err != nil {
			return fmt.Errorf("failed to update item at row %d: %w", item.RowIndex, err)
		}
	}
	return nil
}

func itemFromDraft(jobID int, draft *models.DraftRecord) models.ImportItem {
	item := models.ImportItem{JobID: jobID, RowIndex: draft.RowIndex}
	applyDraft(&item, draft)
	return item
}

func applyDraft(item *models.ImportItem, draft *models.DraftRecord) {
	item.Name = draft.Name
	item.Description = draft.Description
	item.Unit = draft.Unit
	item.Origin = draft.Origin
	item.Price = draft.Price.InexactFloat64()
	item.CategoryID = draft.CategoryID
	item.CategoryHint = draft.CategoryHint
	item.ImageURL = draft.ImageURL
	item.HasEmbeddedImage = draft.HasEmbeddedImage
	item.Status = string(draft.Status)
	item.Errors = strings.Join(draft.Errors, "\n")
}

func draftFromItem(item *models.ImportItem) models.DraftRecord {
	draft := models.DraftRecord{
		RowIndex:         item.RowIndex,
		Name:             item.Name,
		Description:      item.Description,
		Unit:             item.Unit,
		Origin:           item.Origin,
		Price:            decimal.NewFromFloat(item.Price),
		CategoryID:       item.CategoryID,
		CategoryHint:     item.CategoryHint,
		ImageURL:         item.ImageURL,
		HasEmbeddedImage: item.HasEmbeddedImage,
		Status:           models.DraftStatus(item.Status),
	}
	if item.Errors != "" {
		draft.Errors = strings.Split(item.Errors, "\n")
	}
	return draft
}

func duplicateMessage(match importer.DuplicateMatch) string {
	if match.Type == importer.MatchExact {
		return fmt.Sprintf("Duplicate of existing product %q", match.Existing.Name)
	}
	return fmt.Sprintf("Similar to existing product %q (%.0f%% match)", match.Existing.Name, match.Score)
}
