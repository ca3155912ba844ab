package importer

import (
	"regexp"
	"strings"
)

// Upload column layout, fixed by convention. Row 1 is the header.
const (
	colName = iota
	colBrand
	colSecondaryPrice
	colPrimaryPrice
	colImageURL
)

// RowKind labels one raw worksheet row.
type RowKind int

const (
	RowSkip RowKind = iota
	RowCategoryHeader
	RowProduct
	RowCarryForward
)

// Candidate is one product row emitted by the classifier, before draft
// assembly. Sequence is the 0-based position among emitted candidates, which
// diverges from RowIndex whenever rows are skipped between products.
type Candidate struct {
	RowIndex       int
	Sequence       int
	Name           string
	Brand          string
	SecondaryPrice string
	PrimaryPrice   string
	ImageURLCell   string
	CategoryHint   string
	CarriedName    bool
	Original       []string
}

// carryState is the accumulator threaded through the classification fold. It
// replaces the process-wide mutable trackers of earlier revisions so each
// upload starts from a zero value and the resolver stays independently
// testable.
type carryState struct {
	lastName         string
	lastCategoryHint string
}

var priceLikePattern = regexp.MustCompile(`[₡$€£¢]|\d`)

// ClassifyRows walks the raw grid of one worksheet (row 0 is the header and
// is discarded) and returns the product candidates in original row order,
// with category hints stamped and carried-forward names resolved.
func ClassifyRows(rows [][]string) []Candidate {
	var (
		state      carryState
		candidates []Candidate
	)

	for i := 1; i < len(rows); i++ {
		var candidate *Candidate
		state, candidate = classifyRow(state, rows[i], i+1)
		if candidate == nil {
			continue
		}
		candidate.Sequence = len(candidates)
		candidates = append(candidates, *candidate)
	}

	return candidates
}

// classifyRow is one step of the fold: it returns the updated accumulator and
// the emitted candidate, if any. rowIndex is 1-based as displayed in the
// spreadsheet.
func classifyRow(state carryState, row []string, rowIndex int) (carryState, *Candidate) {
	firstCell := strings.TrimSpace(cellAt(row, colName))
	nonEmpty := 0
	priceLike := false
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if priceLikePattern.MatchString(cell) {
			priceLike = true
		}
	}

	switch kindOf(firstCell, nonEmpty, priceLike, row) {
	case RowCategoryHeader:
		state.lastCategoryHint = firstCell
		return state, nil
	case RowSkip:
		return state, nil
	case RowCarryForward, RowProduct:
		candidate := newCandidate(row, rowIndex, state.lastCategoryHint)
		if candidate.Name != "" {
			state.lastName = candidate.Name
		} else if state.lastName != "" {
			candidate.Name = state.lastName
			candidate.CarriedName = true
		}
		return state, candidate
	}

	return state, nil
}

func kindOf(firstCell string, nonEmpty int, priceLike bool, row []string) RowKind {
	switch {
	case nonEmpty == 0:
		return RowSkip
	case firstCell != "" && nonEmpty == 1 && !priceLike:
		return RowCategoryHeader
	case firstCell == "" && priceLike && strings.TrimSpace(cellAt(row, colBrand)) != "":
		return RowCarryForward
	case priceLike:
		return RowProduct
	}
	return RowSkip
}

func newCandidate(row []string, rowIndex int, hint string) *Candidate {
	original := make([]string, len(row))
	copy(original, row)

	return &Candidate{
		RowIndex:       rowIndex,
		Name:           strings.TrimSpace(cellAt(row, colName)),
		Brand:          strings.TrimSpace(cellAt(row, colBrand)),
		SecondaryPrice: strings.TrimSpace(cellAt(row, colSecondaryPrice)),
		PrimaryPrice:   strings.TrimSpace(cellAt(row, colPrimaryPrice)),
		ImageURLCell:   strings.TrimSpace(cellAt(row, colImageURL)),
		CategoryHint:   hint,
		Original:       original,
	}
}

func cellAt(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}
