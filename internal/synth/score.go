// Package synth implements the failure synthesis layer: it ranks the
// candidates produced by the extraction layer, decides whether the combined
// evidence is worth reporting, and assembles one structured failure record.
package synth

import "github.com/failparse/failparse/pkg/models"

// Scoring weights. These constants are load-bearing: downstream consumers
// key off the exact confidence-label boundaries, so they must not be tuned.
const (
	locationPoints = 15
	locationMax    = 2 // category cap 30

	exceptionPoints = 25
	exceptionMax    = 1 // category cap 25

	comparisonPoints = 20
	comparisonCap    = 30 // the second hit only counts for half

	symbolPoints = 5
	symbolMax    = 3 // methods and classes pooled, cap 15
)

// Confidence label boundaries, as percentages of the available points.
const (
	highThreshold   = 80
	mediumThreshold = 50
	lowThreshold    = 20
)

// gradeWeight discounts the points a candidate earns by its grade.
func gradeWeight(g models.Grade) float64 {
	switch g {
	case models.GradeHigh:
		return 1.0
	case models.GradeMedium:
		return 0.6
	default:
		return 0.3
	}
}

// Score computes the overall parsing confidence for an extraction. Each
// category contributes up to its cap; candidates are counted best first and
// earn their full points at high grade, discounted otherwise. The label is
// the earned percentage of the points available from the counted hits.
func Score(ex *models.Extraction) models.Confidence {
	var earned, available float64

	for i, loc := range ex.Locations {
		if i >= locationMax {
			break
		}
		earned += locationPoints * gradeWeight(loc.Grade)
		available += locationPoints
	}

	for i, exc := range ex.Exceptions {
		if i >= exceptionMax {
			break
		}
		earned += exceptionPoints * gradeWeight(exc.Grade)
		available += exceptionPoints
	}

	var cmpUsed float64
	for _, cmp := range ex.Comparisons {
		if cmpUsed >= comparisonCap {
			break
		}
		points := float64(comparisonPoints)
		if remaining := comparisonCap - cmpUsed; remaining < points {
			points = remaining
		}
		earned += points * gradeWeight(cmp.Grade)
		available += points
		cmpUsed += points
	}

	symbols := 0
	for _, lists := range [][]models.Symbol{ex.Methods, ex.Classes} {
		for _, sym := range lists {
			if symbols >= symbolMax {
				break
			}
			earned += symbolPoints * gradeWeight(sym.Grade)
			available += symbolPoints
			symbols++
		}
	}

	if available == 0 {
		return models.ConfidenceNone
	}

	pct := earned / available * 100
	switch {
	case pct >= highThreshold:
		return models.ConfidenceHigh
	case pct >= mediumThreshold:
		return models.ConfidenceMedium
	case pct >= lowThreshold:
		return models.ConfidenceLow
	default:
		return models.ConfidenceNone
	}
}
