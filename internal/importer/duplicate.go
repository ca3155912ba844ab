package importer

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"catalog-web/internal/models"
)

// Duplicate match types.
const (
	MatchExact   = "exact"
	MatchSimilar = "similar"
)

// similarityThreshold is the minimum normalized edit-distance score for a
// fuzzy duplicate flag.
const similarityThreshold = 80.0

// DuplicateMatch flags one draft against one existing catalog product.
type DuplicateMatch struct {
	RowIndex int            `json:"row_index"`
	Existing models.Product `json:"existing"`
	Type     string         `json:"type"`
	Score    float64        `json:"score"`
}

// Resolution is the closed set of actions for a flagged duplicate.
type Resolution interface {
	isResolution()
}

type ResolveSkip struct{}
type ResolvePublish struct{}
type ResolveUpdate struct{}
type ResolveRename struct {
	NewName string
}

func (ResolveSkip) isResolution()    {}
func (ResolvePublish) isResolution() {}
func (ResolveUpdate) isResolution()  {}
func (ResolveRename) isResolution()  {}

// CatalogReader is the read side of the catalog backend used during
// duplicate detection.
type CatalogReader interface {
	FindActiveByCategory(categoryID string) ([]models.Product, error)
}

// DuplicateDetector compares candidate records to the live catalog using
// exact and fuzzy name matching.
type DuplicateDetector struct {
	catalog CatalogReader
}

func NewDuplicateDetector(catalog CatalogReader) *DuplicateDetector {
	return &DuplicateDetector{catalog: catalog}
}

// Detect checks every validated or suggested draft with both name and
// category set against existing active products in the same category.
func (d *DuplicateDetector) Detect(drafts []models.DraftRecord) ([]DuplicateMatch, error) {
	var matches []DuplicateMatch

	byCategory := make(map[string][]models.Product)
	for i := range drafts {
		draft := &drafts[i]
		if draft.Status != models.DraftValidated && draft.Status != models.DraftSuggested {
			continue
		}
		if draft.Name == "" || draft.CategoryID == "" {
			continue
		}

		existing, ok := byCategory[draft.CategoryID]
		if !ok {
			var err error
			existing, err = d.catalog.FindActiveByCategory(draft.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("failed to query category %s: %w", draft.CategoryID, err)
			}
			byCategory[draft.CategoryID] = existing
		}

		if match, found := matchAgainst(draft, existing); found {
			matches = append(matches, match)
		}
	}

	return matches, nil
}

func matchAgainst(draft *models.DraftRecord, existing []models.Product) (DuplicateMatch, bool) {
	name := strings.ToLower(strings.TrimSpace(draft.Name))

	best := DuplicateMatch{RowIndex: draft.RowIndex}
	for _, product := range existing {
		candidate := strings.ToLower(strings.TrimSpace(product.Name))
		if candidate == name {
			return DuplicateMatch{
				RowIndex: draft.RowIndex,
				Existing: product,
				Type:     MatchExact,
				Score:    100,
			}, true
		}

		score := similarity(name, candidate)
		if score > best.Score {
			best.Existing = product
			best.Score = score
		}
	}

	if best.Score > similarityThreshold {
		best.Type = MatchSimilar
		return best, true
	}
	return DuplicateMatch{}, false
}

// similarity is the normalized edit-distance score:
// (maxLen - levenshtein) / maxLen * 100.
func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen) * 100
}
