package importer

import (
	"testing"

	"github.com/shopspring/decimal"

	"catalog-web/internal/models"
)

func draftFixture() models.DraftRecord {
	return models.DraftRecord{
		RowIndex:   3,
		Name:       "Bananas",
		Unit:       "each",
		Price:      decimal.NewFromInt(2),
		CategoryID: "cat-1",
		Status:     models.DraftPending,
	}
}

func TestValidate_HappyPath(t *testing.T) {
	draft := draftFixture()
	Validate(&draft)
	if draft.Status != models.DraftValidated {
		t.Fatalf("expected validated, got %s (%v)", draft.Status, draft.Errors)
	}
	if len(draft.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", draft.Errors)
	}
}

func TestValidate_ZeroPriceNeverValidates(t *testing.T) {
	draft := draftFixture()
	draft.Price = decimal.Zero
	Validate(&draft)
	if draft.Status != models.DraftError {
		t.Fatalf("expected error, got %s", draft.Status)
	}

	// Revalidation without a price fix keeps it in error.
	Validate(&draft)
	if draft.Status != models.DraftError {
		t.Fatalf("expected error after revalidation, got %s", draft.Status)
	}
}

func TestValidate_MissingCategoryMessageClearedByAssignment(t *testing.T) {
	draft := draftFixture()
	draft.CategoryID = ""
	Validate(&draft)
	if draft.Status != models.DraftError {
		t.Fatalf("expected error, got %s", draft.Status)
	}
	if len(draft.Errors) != 1 || !isCategoryError(draft.Errors[0]) {
		t.Fatalf("expected a single category error, got %v", draft.Errors)
	}

	drafts := []models.DraftRecord{draft}
	AssignCategoryAll(drafts, "cat-2")
	if len(drafts[0].Errors) != 0 {
		t.Fatalf("expected category error cleared, got %v", drafts[0].Errors)
	}
	if drafts[0].CategoryID != "cat-2" {
		t.Fatalf("expected category assigned, got %q", drafts[0].CategoryID)
	}

	Validate(&drafts[0])
	if drafts[0].Status != models.DraftValidated {
		t.Fatalf("expected validated after assignment, got %s", drafts[0].Status)
	}
}

func TestAssignCategoryAll_KeepsUnrelatedErrors(t *testing.T) {
	draft := draftFixture()
	draft.Price = decimal.Zero
	draft.CategoryID = ""
	Validate(&draft)

	drafts := []models.DraftRecord{draft}
	AssignCategoryAll(drafts, "cat-2")
	if drafts[0].Status != models.DraftError {
		t.Fatalf("expected error kept, got %s", drafts[0].Status)
	}
	found := false
	for _, message := range drafts[0].Errors {
		if isCategoryError(message) {
			t.Fatalf("category error should have been cleared: %v", drafts[0].Errors)
		}
		if message == errInvalidPrice {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected price error kept, got %v", drafts[0].Errors)
	}
}

func TestAssignCategoryAll_SkipsTerminalDrafts(t *testing.T) {
	draft := draftFixture()
	draft.Status = models.DraftPublished
	drafts := []models.DraftRecord{draft}
	AssignCategoryAll(drafts, "cat-9")
	if drafts[0].CategoryID != "cat-1" {
		t.Fatalf("terminal draft must not be touched, got category %q", drafts[0].CategoryID)
	}
}

func TestValidateAll_ResolvesHints(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-dairy", Name: "Dairy"},
		{ID: "cat-produce", Name: "Fresh Produce"},
	}

	exact := draftFixture()
	exact.CategoryID = ""
	exact.CategoryHint = "dairy"

	substring := draftFixture()
	substring.CategoryID = ""
	substring.CategoryHint = "Produce"

	fallback := draftFixture()
	fallback.CategoryID = ""
	fallback.CategoryHint = "Unknown Section"

	drafts := []models.DraftRecord{exact, substring, fallback}
	if !ValidateAll(drafts, categories) {
		t.Fatalf("expected all drafts validated, got %+v", drafts)
	}

	if drafts[0].CategoryID != "cat-dairy" {
		t.Fatalf("exact hint resolution failed: %q", drafts[0].CategoryID)
	}
	if drafts[1].CategoryID != "cat-produce" {
		t.Fatalf("substring hint resolution failed: %q", drafts[1].CategoryID)
	}
	// Unresolvable hints fall back to the first available category.
	if drafts[2].CategoryID != "cat-dairy" {
		t.Fatalf("fallback resolution failed: %q", drafts[2].CategoryID)
	}
}

func TestValidateAll_ReportsFalseWhenAnyFails(t *testing.T) {
	good := draftFixture()
	bad := draftFixture()
	bad.Name = ""

	drafts := []models.DraftRecord{good, bad}
	if ValidateAll(drafts, []models.Category{{ID: "cat-1", Name: "Any"}}) {
		t.Fatal("expected ValidateAll to report false")
	}
	if drafts[0].Status != models.DraftValidated {
		t.Fatalf("expected first draft validated, got %s", drafts[0].Status)
	}
	if drafts[1].Status != models.DraftError {
		t.Fatalf("expected second draft error, got %s", drafts[1].Status)
	}
}

func TestReadyLifecycle(t *testing.T) {
	if !canTransition(models.DraftValidated, models.DraftReady) {
		t.Fatal("validated draft must be promotable to ready")
	}
	if !canTransition(models.DraftReady, models.DraftPublished) {
		t.Fatal("ready draft must be publishable")
	}
	if !canTransition(models.DraftReady, models.DraftDuplicate) {
		t.Fatal("ready draft must be flaggable as duplicate")
	}
	if isTerminal(models.DraftReady) {
		t.Fatal("ready is not terminal")
	}
}

func TestValidate_SuggestedCanValidate(t *testing.T) {
	draft := draftFixture()
	draft.Status = models.DraftSuggested
	Validate(&draft)
	if draft.Status != models.DraftValidated {
		t.Fatalf("expected validated, got %s", draft.Status)
	}
}
