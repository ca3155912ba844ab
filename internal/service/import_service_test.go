package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-web/internal/config"
	"catalog-web/internal/importer"
	"catalog-web/internal/models"
	"catalog-web/internal/storage"
)

func TestDraftItemRoundTrip(t *testing.T) {
	draft := models.DraftRecord{
		RowIndex:         7,
		Name:             "Whole Milk 1L",
		Description:      "Dos Pinos",
		Unit:             "1l",
		Price:            decimal.NewFromFloat(3.25),
		CategoryID:       "cat-dairy",
		CategoryHint:     "Dairy",
		ImageURL:         "https://cdn.example.com/milk.png",
		HasEmbeddedImage: true,
		Status:           models.DraftValidated,
		Errors:           []string{"first", "second"},
	}

	item := itemFromDraft(42, &draft)
	if item.JobID != 42 {
		t.Fatalf("JobID = %d, want 42", item.JobID)
	}
	if item.RowIndex != 7 {
		t.Fatalf("RowIndex = %d, want 7", item.RowIndex)
	}
	if item.Errors != "first\nsecond" {
		t.Fatalf("Errors = %q, want newline-joined", item.Errors)
	}
	if item.Status != string(models.DraftValidated) {
		t.Fatalf("Status = %q", item.Status)
	}

	back := draftFromItem(&item)
	if back.Name != draft.Name || back.Unit != draft.Unit || back.CategoryID != draft.CategoryID {
		t.Fatalf("round trip changed fields: %+v", back)
	}
	if !back.Price.Equal(draft.Price) {
		t.Fatalf("Price = %s, want %s", back.Price, draft.Price)
	}
	if len(back.Errors) != 2 || back.Errors[0] != "first" || back.Errors[1] != "second" {
		t.Fatalf("Errors = %v", back.Errors)
	}
	if back.Status != models.DraftValidated {
		t.Fatalf("Status = %q", back.Status)
	}
	if !back.HasEmbeddedImage {
		t.Fatal("HasEmbeddedImage lost in round trip")
	}
}

func TestDraftFromItemNoErrors(t *testing.T) {
	item := models.ImportItem{RowIndex: 3, Status: string(models.DraftPending)}
	draft := draftFromItem(&item)
	if draft.Errors != nil {
		t.Fatalf("Errors = %v, want nil", draft.Errors)
	}
}

type fakeImportStore struct {
	jobs   map[int]*models.ImportJob
	items  []models.ImportItem
	nextID int
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{jobs: make(map[int]*models.ImportJob), nextID: 1}
}

func (f *fakeImportStore) CreateJob(job *models.ImportJob) error {
	job.ID = f.nextID
	f.nextID++
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeImportStore) GetJobByID(id int) (*models.ImportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %d not found", id)
	}
	copied := *job
	return &copied, nil
}

func (f *fakeImportStore) GetJobByHash(contentHash string) (*models.ImportJob, error) {
	for _, job := range f.jobs {
		if job.ContentHash == contentHash {
			copied := *job
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeImportStore) UpdateJob(job *models.ImportJob) error {
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeImportStore) BulkInsertItems(items []models.ImportItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeImportStore) GetItemsByJob(jobID int) ([]models.ImportItem, error) {
	var out []models.ImportItem
	for _, item := range f.items {
		if item.JobID == jobID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeImportStore) UpdateItem(item *models.ImportItem) error {
	for i := range f.items {
		if f.items[i].JobID == item.JobID && f.items[i].RowIndex == item.RowIndex {
			f.items[i] = *item
			return nil
		}
	}
	return fmt.Errorf("no item at row %d", item.RowIndex)
}

type fakeCategoryStore struct {
	categories []models.Category
}

func (f *fakeCategoryStore) FindAllActive() ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryStore) FindByID(id string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %s not found", id)
}

type fakeCatalogStore struct {
	products []models.Product
}

func (f *fakeCatalogStore) FindActiveByCategory(categoryID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) FindActiveByName(name string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].IsActive && strings.EqualFold(f.products[i].Name, name) {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) Insert(product *models.Product) error {
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeCatalogStore) Update(product *models.Product) error {
	for i := range f.products {
		if f.products[i].ID == product.ID {
			f.products[i] = *product
			return nil
		}
	}
	return fmt.Errorf("product %s not found", product.ID)
}

type fakePublishQueue struct {
	jobIDs []int
	codes  []string
}

func (f *fakePublishQueue) EnqueuePublish(jobID int, jobCode string) error {
	f.jobIDs = append(f.jobIDs, jobID)
	f.codes = append(f.codes, jobCode)
	return nil
}

func newTestImportService(store *fakeImportStore, catalog *fakeCatalogStore, categories *fakeCategoryStore) *ImportService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{DefaultExchangeRate: 500}
	locator := importer.NewImageLocator(storage.NewMemoryStore(), log)
	return NewImportService(store, catalog, categories, NewWorkbookService(), locator, cfg, log)
}

func writeUploadWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestStartImport_CountsBuilderOutcomes(t *testing.T) {
	path := writeUploadWorkbook(t, [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"Bananas", "", "₡1.000", "", ""},
		{"Milk 1L", "Dos Pinos", "", "$2.50", ""},
		{"Mystery Item", "", "₡", "", ""},
	})

	store := newFakeImportStore()
	svc := newTestImportService(store, &fakeCatalogStore{}, &fakeCategoryStore{})

	job, drafts, err := svc.StartImport(context.Background(), 1, "IMP-test", "upload.xlsx", path, "hash-1")
	if err != nil {
		t.Fatalf("StartImport error: %v", err)
	}

	if job.TotalRows != 3 || job.ValidRows != 2 || job.ErrorRows != 1 {
		t.Fatalf("expected 3 total / 2 valid / 1 error, got %d / %d / %d",
			job.TotalRows, job.ValidRows, job.ErrorRows)
	}

	// No categories exist yet at upload time; parsable rows still count as
	// valid and stay pending until the validation step runs.
	if drafts[0].Status != models.DraftPending || drafts[1].Status != models.DraftPending {
		t.Fatalf("expected pending drafts, got %s / %s", drafts[0].Status, drafts[1].Status)
	}
	if drafts[2].Status != models.DraftError {
		t.Fatalf("expected unparsable price to error, got %s", drafts[2].Status)
	}

	items, _ := store.GetItemsByJob(job.ID)
	if len(items) != 3 {
		t.Fatalf("expected 3 persisted items, got %d", len(items))
	}
}

func TestValidateJob_QueuesPublishWhenAllValid(t *testing.T) {
	store := newFakeImportStore()
	job := &models.ImportJob{JobCode: "IMP-auto", UserID: 1, Status: JobStatusDraft}
	store.CreateJob(job)
	store.BulkInsertItems([]models.ImportItem{
		{JobID: job.ID, RowIndex: 3, Name: "Bananas", Price: 1500, CategoryID: "cat-1", Unit: "each", Status: string(models.DraftPending)},
		{JobID: job.ID, RowIndex: 4, Name: "Milk 1L", Price: 800, CategoryID: "cat-1", Unit: "1l", Status: string(models.DraftPending)},
	})

	categories := &fakeCategoryStore{categories: []models.Category{{ID: "cat-1", Name: "Groceries"}}}
	svc := newTestImportService(store, &fakeCatalogStore{}, categories)
	queue := &fakePublishQueue{}
	svc.SetPublishEnqueuer(queue)

	_, allValid, err := svc.ValidateJob(job.ID)
	if err != nil {
		t.Fatalf("ValidateJob error: %v", err)
	}
	if !allValid {
		t.Fatal("expected all drafts valid")
	}
	if len(queue.jobIDs) != 1 || queue.jobIDs[0] != job.ID || queue.codes[0] != "IMP-auto" {
		t.Fatalf("expected one queued publish for the job, got %v / %v", queue.jobIDs, queue.codes)
	}

	stored, err := store.GetJobByID(job.ID)
	if err != nil {
		t.Fatalf("GetJobByID error: %v", err)
	}
	if stored.Status != JobStatusPublishing {
		t.Fatalf("expected publishing, got %s", stored.Status)
	}
}

func TestValidateJob_IncompleteJobNotQueued(t *testing.T) {
	store := newFakeImportStore()
	job := &models.ImportJob{JobCode: "IMP-partial", UserID: 1, Status: JobStatusDraft}
	store.CreateJob(job)
	store.BulkInsertItems([]models.ImportItem{
		{JobID: job.ID, RowIndex: 3, Name: "Bananas", Price: 1500, CategoryID: "cat-1", Unit: "each", Status: string(models.DraftPending)},
		{JobID: job.ID, RowIndex: 4, Name: "Broken Row", Price: 0, CategoryID: "cat-1", Unit: "each", Status: string(models.DraftError)},
	})

	categories := &fakeCategoryStore{categories: []models.Category{{ID: "cat-1", Name: "Groceries"}}}
	svc := newTestImportService(store, &fakeCatalogStore{}, categories)
	queue := &fakePublishQueue{}
	svc.SetPublishEnqueuer(queue)

	_, allValid, err := svc.ValidateJob(job.ID)
	if err != nil {
		t.Fatalf("ValidateJob error: %v", err)
	}
	if allValid {
		t.Fatal("expected validation to fail")
	}
	if len(queue.jobIDs) != 0 {
		t.Fatalf("publish must not be queued, got %v", queue.jobIDs)
	}

	stored, _ := store.GetJobByID(job.ID)
	if stored.Status != JobStatusDraft {
		t.Fatalf("expected job left in draft, got %s", stored.Status)
	}
}

func TestDetectDuplicates_PromotesCleanDraftsToReady(t *testing.T) {
	store := newFakeImportStore()
	job := &models.ImportJob{JobCode: "IMP-dup", UserID: 1, Status: JobStatusReady}
	store.CreateJob(job)
	store.BulkInsertItems([]models.ImportItem{
		{JobID: job.ID, RowIndex: 3, Name: "Organic Bananas", Price: 1500, CategoryID: "cat-1", Unit: "each", Status: string(models.DraftValidated)},
		{JobID: job.ID, RowIndex: 4, Name: "Dragonfruit", Price: 2000, CategoryID: "cat-1", Unit: "each", Status: string(models.DraftValidated)},
	})

	catalog := &fakeCatalogStore{products: []models.Product{
		{ID: "p1", Name: "organic bananas", CategoryID: "cat-1", IsActive: true},
	}}
	svc := newTestImportService(store, catalog, &fakeCategoryStore{})

	matches, err := svc.DetectDuplicates(job.ID)
	if err != nil {
		t.Fatalf("DetectDuplicates error: %v", err)
	}
	if len(matches) != 1 || matches[0].RowIndex != 3 {
		t.Fatalf("expected one match at row 3, got %+v", matches)
	}

	items, _ := store.GetItemsByJob(job.ID)
	statusByRow := make(map[int]string, len(items))
	for _, item := range items {
		statusByRow[item.RowIndex] = item.Status
	}
	if statusByRow[3] != string(models.DraftDuplicate) {
		t.Fatalf("expected flagged draft marked duplicate, got %s", statusByRow[3])
	}
	if statusByRow[4] != string(models.DraftReady) {
		t.Fatalf("expected clean draft promoted to ready, got %s", statusByRow[4])
	}
}
