package synth

import (
	"testing"

	"github.com/failparse/failparse/pkg/models"
)

func highLocation() models.Location {
	return models.Location{File: "a.py", Line: 1, Column: 2, Grade: models.GradeHigh}
}

func TestScore_Empty(t *testing.T) {
	got := Score(&models.Extraction{})
	if got != models.ConfidenceNone {
		t.Errorf("Score() = %q, want none", got)
	}
}

func TestScore_AllHighSignals(t *testing.T) {
	ex := &models.Extraction{
		Locations:   []models.Location{highLocation()},
		Exceptions:  []models.Exception{{Name: "AssertionError", Grade: models.GradeHigh}},
		Comparisons: []models.Comparison{{Left: "1", Operator: "==", Right: "2", Grade: models.GradeHigh}},
	}
	if got := Score(ex); got != models.ConfidenceHigh {
		t.Errorf("Score() = %q, want high", got)
	}
}

func TestScore_AllMediumSignals(t *testing.T) {
	ex := &models.Extraction{
		Locations:  []models.Location{{File: "a.py", Grade: models.GradeMedium}},
		Exceptions: []models.Exception{{Name: "OddError", Grade: models.GradeMedium}},
	}
	if got := Score(ex); got != models.ConfidenceMedium {
		t.Errorf("Score() = %q, want medium", got)
	}
}

func TestScore_AllLowSignals(t *testing.T) {
	ex := &models.Extraction{
		Exceptions: []models.Exception{{Name: "Oddity", Grade: models.GradeLow}},
		Classes:    []models.Symbol{{Name: "Billing", Grade: models.GradeLow}},
	}
	if got := Score(ex); got != models.ConfidenceLow {
		t.Errorf("Score() = %q, want low", got)
	}
}

func TestScore_CategoryCaps(t *testing.T) {
	// Ten high locations count as two; ten low ones cannot dilute the
	// result below what two low ones would give.
	many := &models.Extraction{}
	for i := 0; i < 10; i++ {
		many.Locations = append(many.Locations, highLocation())
	}
	two := &models.Extraction{Locations: []models.Location{highLocation(), highLocation()}}

	if Score(many) != Score(two) {
		t.Errorf("location cap not applied: %q vs %q", Score(many), Score(two))
	}
}

func TestScore_SecondComparisonCountsHalf(t *testing.T) {
	// The comparison cap is 30 with 20 points per hit, so a high first hit
	// and a low second hit still score above the high threshold.
	ex := &models.Extraction{
		Comparisons: []models.Comparison{
			{Left: "a", Operator: "==", Right: "b", Grade: models.GradeHigh},
			{Left: "c", Operator: "==", Right: "d", Grade: models.GradeHigh},
			{Left: "e", Operator: "==", Right: "f", Grade: models.GradeHigh},
		},
	}
	if got := Score(ex); got != models.ConfidenceHigh {
		t.Errorf("Score() = %q, want high", got)
	}
}

func TestScore_Monotonicity(t *testing.T) {
	// Adding a high-confidence location with line and column to an
	// extraction that had none never lowers the confidence.
	bases := []*models.Extraction{
		{},
		{Exceptions: []models.Exception{{Name: "OddError", Grade: models.GradeMedium}}},
		{Comparisons: []models.Comparison{{Left: "1", Operator: "<", Right: "2", Grade: models.GradeMedium}}},
		{
			Exceptions: []models.Exception{{Name: "AssertionError", Grade: models.GradeHigh}},
			Methods:    []models.Symbol{{Name: "helper", Grade: models.GradeMedium}},
		},
	}

	for _, base := range bases {
		before := Score(base)
		withLoc := *base
		withLoc.Locations = []models.Location{highLocation()}
		after := Score(&withLoc)

		if !after.AtLeast(before) {
			t.Errorf("confidence dropped from %q to %q after adding a high location", before, after)
		}
	}
}
