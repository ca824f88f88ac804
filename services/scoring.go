// Package services holds the scoring rule, the quotation draft lists and the
// document exports used by the form handlers.
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NumCategories is the number of evaluation dimensions in the scoring matrix.
const NumCategories = 5

// NumCriteria is the number of performance tiers per category.
const NumCriteria = 4

// NoSelection marks a category without a chosen criterion row.
const NoSelection = -1

const (
	GradeA = "Grade-A"
	GradeB = "Grade-B"
	GradeC = "Grade-C"
)

var (
	ErrInvalidCategory = errors.New("invalid category index")
	ErrInvalidRow      = errors.New("invalid criterion row index")
)

// Criterion is one cell of the scoring matrix.
type Criterion struct {
	Label  string
	Points int
}

// Categories lists the evaluation dimensions in column order.
var Categories = [NumCategories]string{
	"Quality of Items",
	"Quality System of Supplier",
	"Delivery Performance",
	"Price",
	"Quantity Commitment",
}

// ScoringMatrix is indexed [row][category].
var ScoringMatrix = [NumCriteria][NumCategories]Criterion{
	{
		{"100% Compliance", 30},
		{"ISO/ANV Certification", 30},
		{"On Time", 10},
		{"Lowest (L1)", 20},
		{"100% Commitment", 10},
	},
	{
		{"95% Compliance", 24},
		{"Non ISO but Excellent system performance", 24},
		{"1-2 Weeks Late", 8},
		{"2nd Lowest (L2)", 16},
		{"95% Commitment", 8},
	},
	{
		{"90% Compliance", 15},
		{"Non ISO but Good system performance", 15},
		{"3-4 Weeks Late", 5},
		{"3rd Lowest (L3)", 10},
		{"90% Commitment", 5},
	},
	{
		{"85% Compliance", 6},
		{"Basic Quality Processes", 6},
		{"4-5 Weeks Late", 2},
		{"4th Lowest (L4)", 4},
		{"85% Commitment", 2},
	},
}

// GradeRule describes one acceptance bucket for the legend shown above the matrix.
type GradeRule struct {
	Grade      string
	Range      string
	Acceptance string
}

var GradeRules = []GradeRule{
	{GradeA, "Total score 70 & above", "Continued as approved supplier"},
	{GradeB, "Total score between 41 to 69", "Warning to improve"},
	{GradeC, "Total score ≤ 40", "Discontinue"},
}

// Selection maps each category to its chosen criterion row, or NoSelection.
type Selection [NumCategories]int

// NewSelection returns a selection with nothing chosen.
func NewSelection() Selection {
	var s Selection
	for i := range s {
		s[i] = NoSelection
	}
	return s
}

// Select records row as the chosen criterion for category, replacing any
// earlier choice. Out-of-range indices leave the selection untouched.
func (s *Selection) Select(category, row int) error {
	if category < 0 || category >= NumCategories {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, category)
	}
	if row < 0 || row >= NumCriteria {
		return fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	s[category] = row
	return nil
}

// Complete reports whether every category has a chosen row.
func (s Selection) Complete() bool {
	for _, row := range s {
		if row == NoSelection {
			return false
		}
	}
	return true
}

// Score returns the points of the chosen row for category, or 0 if unselected.
func (s Selection) Score(category int) int {
	if category < 0 || category >= NumCategories {
		return 0
	}
	row := s[category]
	if row < 0 || row >= NumCriteria {
		return 0
	}
	return ScoringMatrix[row][category].Points
}

// Scores returns the per-category scores in column order.
func (s Selection) Scores() [NumCategories]int {
	var out [NumCategories]int
	for c := range out {
		out[c] = s.Score(c)
	}
	return out
}

// Total sums the per-category scores; unselected categories contribute 0.
func (s Selection) Total() int {
	total := 0
	for c := 0; c < NumCategories; c++ {
		total += s.Score(c)
	}
	return total
}

// Grade returns the grade bucket for the selection, or "" until every
// category has been selected.
func (s Selection) Grade() string {
	if !s.Complete() {
		return ""
	}
	return GradeForTotal(s.Total())
}

// GradeForTotal buckets a total score into Grade-A/B/C.
func GradeForTotal(total int) string {
	switch {
	case total >= 70:
		return GradeA
	case total >= 41:
		return GradeB
	default:
		return GradeC
	}
}

// AcceptanceFor returns the acceptance wording for a grade.
func AcceptanceFor(grade string) string {
	for _, r := range GradeRules {
		if r.Grade == grade {
			return r.Acceptance
		}
	}
	return ""
}

// SelectionFieldName is the form field carrying the chosen row for a category.
func SelectionFieldName(category int) string {
	return fmt.Sprintf("category_%d", category)
}

// ParseSelection reads category_0..category_4 through get. Missing,
// non-numeric and out-of-range values are treated as not selected.
func ParseSelection(get func(string) string) Selection {
	sel := NewSelection()
	for c := 0; c < NumCategories; c++ {
		raw := strings.TrimSpace(get(SelectionFieldName(c)))
		if raw == "" {
			continue
		}
		row, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		_ = sel.Select(c, row)
	}
	return sel
}

// ScoreSummary is the derived display state for a selection.
type ScoreSummary struct {
	Selection Selection
	Scores    [NumCategories]int
	Total     int
	Grade     string
}

func Summarize(s Selection) ScoreSummary {
	return ScoreSummary{
		Selection: s,
		Scores:    s.Scores(),
		Total:     s.Total(),
		Grade:     s.Grade(),
	}
}
