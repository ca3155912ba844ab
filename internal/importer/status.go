package importer

import (
	"strings"

	"catalog-web/internal/models"
)

// Validation failure messages. The category message is matched by prefix when
// bulk category assignment clears category-shaped errors, so keep it stable.
const (
	errMissingName     = "Product name is required"
	errMissingPrice    = "Price is required"
	errInvalidPrice    = "Price must be greater than zero"
	errMissingCategory = "Category is not assigned"
	errMissingUnit     = "Unit could not be determined"
)

// validTransitions is the draft lifecycle. Ready marks a validated draft that
// cleared the duplicate check. Duplicate and published are terminal and never
// revalidated.
var validTransitions = map[models.DraftStatus][]models.DraftStatus{
	models.DraftPending:   {models.DraftValidated, models.DraftError},
	models.DraftValidated: {models.DraftReady, models.DraftPublished, models.DraftDuplicate, models.DraftError},
	models.DraftReady:     {models.DraftValidated, models.DraftPublished, models.DraftDuplicate, models.DraftError},
	models.DraftError:     {models.DraftValidated},
	models.DraftSuggested: {models.DraftValidated, models.DraftError},
}

func canTransition(from, to models.DraftStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isTerminal(status models.DraftStatus) bool {
	return status == models.DraftDuplicate || status == models.DraftPublished
}

// Validate moves a draft to validated when it has a name, a positive price, a
// resolved category id, and a unit. Any failing condition appends a specific
// message and forces error instead. Terminal drafts are left untouched.
func Validate(draft *models.DraftRecord) {
	if isTerminal(draft.Status) {
		return
	}

	draft.Errors = nil
	if draft.Name == "" {
		draft.Errors = append(draft.Errors, errMissingName)
	}
	if !draft.Price.IsPositive() {
		draft.Errors = append(draft.Errors, errInvalidPrice)
	}
	if draft.CategoryID == "" {
		draft.Errors = append(draft.Errors, errMissingCategory)
	}
	if draft.Unit == "" {
		draft.Errors = append(draft.Errors, errMissingUnit)
	}

	if len(draft.Errors) > 0 {
		draft.Status = models.DraftError
		return
	}
	if canTransition(draft.Status, models.DraftValidated) {
		draft.Status = models.DraftValidated
	}
}

// AssignCategoryAll sets the category on every non-terminal draft, clears
// only category-shaped errors, and re-derives each status.
func AssignCategoryAll(drafts []models.DraftRecord, categoryID string) {
	for i := range drafts {
		draft := &drafts[i]
		if isTerminal(draft.Status) {
			continue
		}

		draft.CategoryID = categoryID

		kept := draft.Errors[:0]
		for _, message := range draft.Errors {
			if !isCategoryError(message) {
				kept = append(kept, message)
			}
		}
		draft.Errors = kept

		if len(draft.Errors) > 0 {
			draft.Status = models.DraftError
		} else if draft.Status == models.DraftError {
			draft.Status = models.DraftPending
		}
	}
}

// ValidateAll resolves empty category ids from hints, validates every draft,
// and reports whether all of them reached validated. The caller auto-triggers
// publishing when it returns true.
func ValidateAll(drafts []models.DraftRecord, categories []models.Category) bool {
	allValidated := len(drafts) > 0
	for i := range drafts {
		draft := &drafts[i]
		if isTerminal(draft.Status) {
			continue
		}

		if draft.CategoryID == "" && draft.CategoryHint != "" {
			draft.CategoryID = resolveCategoryHint(draft.CategoryHint, categories)
		}
		if draft.CategoryID == "" && len(categories) > 0 {
			// Last-resort fallback so a sheet without headers can still pass.
			draft.CategoryID = categories[0].ID
		}

		Validate(draft)
		if draft.Status != models.DraftValidated {
			allValidated = false
		}
	}
	return allValidated
}

// resolveCategoryHint matches a free-text header label against the live
// category list: exact case-insensitive match, then substring in either
// direction.
func resolveCategoryHint(hint string, categories []models.Category) string {
	lowered := strings.ToLower(strings.TrimSpace(hint))
	if lowered == "" {
		return ""
	}

	for _, category := range categories {
		if strings.ToLower(category.Name) == lowered {
			return category.ID
		}
	}
	for _, category := range categories {
		name := strings.ToLower(category.Name)
		if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
			return category.ID
		}
	}
	return ""
}

func isCategoryError(message string) bool {
	return strings.Contains(strings.ToLower(message), "category")
}
