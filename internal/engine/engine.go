// Package engine scores climate readings against the risk catalog. It is a
// stateless, side-effect-free computation: any number of evaluations may run
// concurrently against the shared read-only catalog.
package engine

import (
	"math"

	"github.com/cropwatch/climate-risk-service/internal/catalog"
	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// Options are the calibratable scoring constants. The level thresholds and
// the meta materiality epsilon are operational tuning knobs, not derived
// values, so they are configuration rather than literals.
type Options struct {
	// MediumThreshold is the score at which Low becomes Medium. Default 34.
	MediumThreshold float64
	// HighThreshold is the score at which Medium becomes High. Default 67.
	HighThreshold float64
	// MatchEpsilon is the minimum meta-mode membership degree for a condition
	// to be reported as a matched factor. Barely-matched factors are still
	// explanatory signal even when they earn little credit. Default 0.1.
	MatchEpsilon float64
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{MediumThreshold: 34, HighThreshold: 67, MatchEpsilon: 0.1}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MediumThreshold <= 0 {
		o.MediumThreshold = d.MediumThreshold
	}
	if o.HighThreshold <= 0 {
		o.HighThreshold = d.HighThreshold
	}
	if o.MatchEpsilon <= 0 {
		o.MatchEpsilon = d.MatchEpsilon
	}
	return o
}

// Evaluator scores readings against the catalog held by a Store.
type Evaluator struct {
	store *catalog.Store
	opts  Options
}

// New creates an Evaluator. Zero-valued Options fields fall back to defaults.
func New(store *catalog.Store, opts Options) *Evaluator {
	return &Evaluator{store: store, opts: opts.withDefaults()}
}

// Evaluate scores the reading against every catalog definition in the given
// category under the given mode. Results are returned in catalog order; rank
// them with [Rank]. An unsupported category yields an empty list. Evaluate
// never fails for a normalized reading.
func (e *Evaluator) Evaluate(reading domain.ClimateReading, mode domain.ScoringMode, category domain.Category) []domain.RiskResult {
	defs := e.store.Current().ByCategory(category)

	results := make([]domain.RiskResult, 0, len(defs))
	for _, def := range defs {
		results = append(results, e.scoreDefinition(def, reading, mode))
	}
	return results
}

// scoreDefinition computes one definition's score. Conditions whose target
// field is unknown drop out of both the numerator and the denominator, so the
// achievable maximum shrinks instead of penalizing the reading.
func (e *Evaluator) scoreDefinition(def catalog.RiskDefinition, reading domain.ClimateReading, mode domain.ScoringMode) domain.RiskResult {
	var activeWeight, earned float64
	factors := []string{}

	for _, cond := range def.Conditions {
		if !cond.AppliesTo(mode) || !cond.Active(reading) {
			continue
		}
		activeWeight += cond.Weight

		var degree float64
		if mode == domain.ModeMeta {
			degree = cond.Degree(reading)
		} else if cond.Satisfied(reading) {
			degree = 1
		}
		if degree == 0 {
			continue
		}
		earned += cond.Weight * degree

		// Standard mode reports every contributing condition; meta mode
		// applies the materiality epsilon.
		if mode != domain.ModeMeta || degree > e.opts.MatchEpsilon {
			factors = append(factors, cond.Label)
		}
	}

	if activeWeight == 0 {
		// All inputs unknown for this definition. A well-defined minimum,
		// not NaN; callers may filter it out.
		return domain.RiskResult{Name: def.Name, Score: 0, Level: domain.LevelLow, MatchedFactors: factors}
	}

	score := math.Round(100 * earned / activeWeight)
	score = math.Min(100, math.Max(0, score))

	return domain.RiskResult{
		Name:           def.Name,
		Score:          score,
		Level:          e.classify(score),
		MatchedFactors: factors,
	}
}

func (e *Evaluator) classify(score float64) domain.RiskLevel {
	switch {
	case score >= e.opts.HighThreshold:
		return domain.LevelHigh
	case score >= e.opts.MediumThreshold:
		return domain.LevelMedium
	default:
		return domain.LevelLow
	}
}
