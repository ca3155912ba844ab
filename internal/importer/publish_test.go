package importer

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"catalog-web/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPublishAll_MixedOutcomes(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{ID: "p1", Name: "Organic Bananas", CategoryID: "cat-1", IsActive: true},
		},
		insertErr: map[string]error{"Broken": errors.New("insert rejected")},
	}
	reconciler := NewPublishReconciler(catalog, testLogger())

	drafts := []models.DraftRecord{
		validatedDraft(3, "Apples"),
		validatedDraft(4, "Organic Bananas"), // exact name collision
		validatedDraft(5, "Broken"),          // backend insert failure
		validatedDraft(6, "Pears"),
	}
	notReady := validatedDraft(7, "Ignored")
	notReady.Status = models.DraftPending
	drafts = append(drafts, notReady)

	result := reconciler.PublishAll(drafts)

	if result.PublishedCount != 2 || result.SkippedCount != 1 || result.ErrorCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if drafts[0].Status != models.DraftPublished || drafts[3].Status != models.DraftPublished {
		t.Fatalf("expected published drafts, got %s / %s", drafts[0].Status, drafts[3].Status)
	}
	if drafts[1].Status != models.DraftDuplicate {
		t.Fatalf("expected duplicate, got %s", drafts[1].Status)
	}
	if drafts[2].Status != models.DraftError || len(drafts[2].Errors) == 0 {
		t.Fatalf("expected error with message, got %s %v", drafts[2].Status, drafts[2].Errors)
	}
	if drafts[4].Status != models.DraftPending {
		t.Fatalf("non-validated draft must be untouched, got %s", drafts[4].Status)
	}

	// Sequential processing: insert order matches input order.
	if len(catalog.insertSeen) != 2 || catalog.insertSeen[0] != "Apples" || catalog.insertSeen[1] != "Pears" {
		t.Fatalf("unexpected insert order: %v", catalog.insertSeen)
	}
}

func TestPublishAll_InsertsAsTestProduct(t *testing.T) {
	catalog := &fakeCatalog{}
	reconciler := NewPublishReconciler(catalog, testLogger())

	reconciler.PublishAll([]models.DraftRecord{validatedDraft(3, "Apples")})

	if len(catalog.products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(catalog.products))
	}
	inserted := catalog.products[0]
	if !inserted.IsTestProduct || !inserted.IsActive {
		t.Fatalf("expected active test product, got %+v", inserted)
	}
}

func TestPublishAll_ReadyDraftsPublish(t *testing.T) {
	catalog := &fakeCatalog{}
	reconciler := NewPublishReconciler(catalog, testLogger())

	ready := validatedDraft(3, "Mangoes")
	ready.Status = models.DraftReady

	drafts := []models.DraftRecord{ready}
	result := reconciler.PublishAll(drafts)

	if result.PublishedCount != 1 {
		t.Fatalf("expected ready draft published, got %+v", result)
	}
	if drafts[0].Status != models.DraftPublished {
		t.Fatalf("expected published, got %s", drafts[0].Status)
	}
}

func TestResolve_Skip(t *testing.T) {
	catalog := &fakeCatalog{}
	reconciler := NewPublishReconciler(catalog, testLogger())

	draft := validatedDraft(3, "Apples")
	if err := reconciler.Resolve(&draft, DuplicateMatch{}, ResolveSkip{}); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if draft.Status != models.DraftDuplicate {
		t.Fatalf("expected duplicate, got %s", draft.Status)
	}
	if len(catalog.products) != 0 {
		t.Fatal("skip must not touch the catalog")
	}
}

func TestResolve_PublishDespiteDuplicate(t *testing.T) {
	catalog := &fakeCatalog{}
	reconciler := NewPublishReconciler(catalog, testLogger())

	draft := validatedDraft(3, "Apples")
	if err := reconciler.Resolve(&draft, DuplicateMatch{}, ResolvePublish{}); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if draft.Status != models.DraftPublished || len(catalog.products) != 1 {
		t.Fatalf("expected insert despite duplicate, got %s", draft.Status)
	}
}

func TestResolve_UpdateExisting(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		{ID: "p1", Name: "Apples", CategoryID: "cat-1", IsActive: true},
	}}
	reconciler := NewPublishReconciler(catalog, testLogger())

	draft := validatedDraft(3, "Apples")
	draft.Description = "Granny Smith"
	match := DuplicateMatch{Existing: catalog.products[0]}

	if err := reconciler.Resolve(&draft, match, ResolveUpdate{}); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if draft.Status != models.DraftPublished {
		t.Fatalf("expected published, got %s", draft.Status)
	}
	if catalog.products[0].Description != "Granny Smith" {
		t.Fatalf("expected existing row updated, got %+v", catalog.products[0])
	}
}

func TestResolve_Rename(t *testing.T) {
	catalog := &fakeCatalog{}
	reconciler := NewPublishReconciler(catalog, testLogger())

	draft := validatedDraft(3, "Apples")
	if err := reconciler.Resolve(&draft, DuplicateMatch{}, ResolveRename{NewName: "Apples (Imported)"}); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if draft.Name != "Apples (Imported)" || draft.Status != models.DraftPublished {
		t.Fatalf("expected renamed publish, got %q (%s)", draft.Name, draft.Status)
	}

	// Missing name keeps the draft unpublished.
	second := validatedDraft(4, "Pears")
	if err := reconciler.Resolve(&second, DuplicateMatch{}, ResolveRename{}); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if second.Status != models.DraftError {
		t.Fatalf("expected error for empty rename, got %s", second.Status)
	}
}
