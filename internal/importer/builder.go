package importer

import (
	"github.com/shopspring/decimal"

	"catalog-web/internal/models"
)

// DraftBuilder assembles one DraftRecord per classified candidate, combining
// the price parser, the unit extractor, and the image binding table.
type DraftBuilder struct {
	exchangeRate float64
}

func NewDraftBuilder(exchangeRate float64) *DraftBuilder {
	return &DraftBuilder{exchangeRate: exchangeRate}
}

// Build assembles draft records from classified candidates and the image
// mapping table produced by the locator.
func (b *DraftBuilder) Build(candidates []Candidate, images []models.ImageRowMapping) []models.DraftRecord {
	byRow := make(map[int]models.ImageRowMapping, len(images))
	for _, img := range images {
		byRow[img.ExcelRow] = img
	}

	drafts := make([]models.DraftRecord, 0, len(candidates))
	for _, candidate := range candidates {
		drafts = append(drafts, b.buildOne(candidate, byRow))
	}
	return drafts
}

func (b *DraftBuilder) buildOne(candidate Candidate, images map[int]models.ImageRowMapping) models.DraftRecord {
	draft := models.DraftRecord{
		RowIndex:     candidate.RowIndex,
		Name:         candidate.Name,
		Description:  candidate.Brand,
		CategoryHint: candidate.CategoryHint,
		Status:       models.DraftPending,
		OriginalData: candidate.Original,
	}

	draft.Price = b.parsePrice(candidate, &draft)
	draft.Unit = ExtractUnit(draft.Name)
	if draft.Name == "" {
		draft.Errors = append(draft.Errors, errMissingName)
	}

	bindImage(&draft, candidate, images)

	if len(draft.Errors) > 0 {
		draft.Status = models.DraftError
	}

	return draft
}

// parsePrice prefers the secondary-currency column when both are present.
func (b *DraftBuilder) parsePrice(candidate Candidate, draft *models.DraftRecord) decimal.Decimal {
	switch {
	case candidate.SecondaryPrice != "":
		value, err := ParsePrice(candidate.SecondaryPrice, ColumnSecondary, b.exchangeRate)
		if err != nil {
			draft.Errors = append(draft.Errors, err.Error())
			return decimal.Zero
		}
		return value
	case candidate.PrimaryPrice != "":
		value, err := ParsePrice(candidate.PrimaryPrice, ColumnPrimary, b.exchangeRate)
		if err != nil {
			draft.Errors = append(draft.Errors, err.Error())
			return decimal.Zero
		}
		return value
	}

	draft.Errors = append(draft.Errors, errMissingPrice)
	return decimal.Zero
}

// bindImage attaches at most one embedded image to the draft. The candidate's
// own recorded row number is tried first; emission-sequence position is the
// fallback for sheets where the drawing anchors drifted. A row without an
// image is not an error; the image URL column is used only when no embedded
// image was recovered.
func bindImage(draft *models.DraftRecord, candidate Candidate, images map[int]models.ImageRowMapping) {
	if img, ok := images[candidate.RowIndex]; ok {
		draft.ImageURL = img.ImageURL
		draft.HasEmbeddedImage = true
		return
	}
	if img, ok := images[candidate.Sequence+firstContentRow]; ok {
		draft.ImageURL = img.ImageURL
		draft.HasEmbeddedImage = true
		return
	}
	if candidate.ImageURLCell != "" {
		draft.ImageURL = candidate.ImageURLCell
	}
}
