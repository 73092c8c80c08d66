// Package catalog holds the read-only table of disease and pest risk
// definitions the scoring engine evaluates against. Definitions are data, not
// code: adding or tuning a risk touches only this package's tables or an
// external YAML file, never the engine.
package catalog

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// weightBasis is the normalization basis condition weights must sum to per
// mode, so raw scores are comparable across definitions.
const weightBasis = 100.0

// Comparison is the shape of a condition's predicate.
type Comparison int

const (
	CompareAtLeast Comparison = iota // numeric >= Min
	CompareAtMost                    // numeric <= Max
	CompareInRange                   // Min <= numeric <= Max, inclusive
	CompareEquals                    // categorical == Value
	CompareIsTrue                    // flag is set
	CompareIsFalse                   // flag is clear
)

// ModeScope restricts a condition to one scoring mode. Conditions on drainage,
// standing water and weather-history flags are typically meta-scoped: the
// discrete standard model cannot express them usefully.
type ModeScope int

const (
	ScopeBoth ModeScope = iota
	ScopeStandardOnly
	ScopeMetaOnly
)

// MetaRange describes partial-credit scoring for meta mode: full credit inside
// the optimal range, linear decay through the marginal range, zero outside it.
type MetaRange struct {
	OptimalMin  float64
	OptimalMax  float64
	MarginalMin float64
	MarginalMax float64
}

// Condition is an atomic predicate over one reading field, with the weight it
// contributes to a definition's score and the human-readable label reported in
// matched factors.
type Condition struct {
	Param   domain.Param
	Label   string
	Weight  float64
	Compare Comparison
	Min     float64 // threshold for atLeast, lower bound for inRange
	Max     float64 // threshold for atMost, upper bound for inRange
	Value   string  // categorical comparand for equals
	Scope   ModeScope
	Meta    *MetaRange
}

// AppliesTo reports whether the condition participates in the given mode.
func (c Condition) AppliesTo(mode domain.ScoringMode) bool {
	switch c.Scope {
	case ScopeStandardOnly:
		return mode == domain.ModeStandard
	case ScopeMetaOnly:
		return mode == domain.ModeMeta
	default:
		return true
	}
}

// Active reports whether the condition's target field is known in the reading.
// Inactive conditions are skipped entirely: they contribute to neither the
// earned score nor the achievable maximum.
func (c Condition) Active(r domain.ClimateReading) bool {
	switch c.Compare {
	case CompareEquals:
		_, known := r.Categorical(c.Param)
		return known
	case CompareIsTrue, CompareIsFalse:
		_, ok := r.Flag(c.Param)
		return ok
	default:
		_, known := r.Numeric(c.Param)
		return known
	}
}

// Satisfied evaluates the discrete predicate against the reading.
func (c Condition) Satisfied(r domain.ClimateReading) bool {
	switch c.Compare {
	case CompareAtLeast:
		v, known := r.Numeric(c.Param)
		return known && v >= c.Min
	case CompareAtMost:
		v, known := r.Numeric(c.Param)
		return known && v <= c.Max
	case CompareInRange:
		v, known := r.Numeric(c.Param)
		return known && v >= c.Min && v <= c.Max
	case CompareEquals:
		v, known := r.Categorical(c.Param)
		return known && v == c.Value
	case CompareIsTrue:
		v, ok := r.Flag(c.Param)
		return ok && v
	case CompareIsFalse:
		v, ok := r.Flag(c.Param)
		return ok && !v
	default:
		return false
	}
}

// Degree computes the meta-mode membership degree in [0,1]. Conditions without
// a range descriptor (flags, categoricals, plain thresholds) score binary.
func (c Condition) Degree(r domain.ClimateReading) float64 {
	if c.Meta == nil {
		if c.Satisfied(r) {
			return 1
		}
		return 0
	}

	v, known := r.Numeric(c.Param)
	if !known {
		return 0
	}
	return c.Meta.membership(v)
}

func (m MetaRange) membership(v float64) float64 {
	switch {
	case v >= m.OptimalMin && v <= m.OptimalMax:
		return 1
	case v < m.MarginalMin || v > m.MarginalMax:
		return 0
	case v < m.OptimalMin:
		span := m.OptimalMin - m.MarginalMin
		if span <= 0 {
			return 1
		}
		return (v - m.MarginalMin) / span
	default:
		span := m.MarginalMax - m.OptimalMax
		if span <= 0 {
			return 1
		}
		return (m.MarginalMax - v) / span
	}
}

// RiskDefinition is one disease or pest with its ordered evaluation conditions.
type RiskDefinition struct {
	Name       string
	Category   domain.Category
	Conditions []Condition
}

// Catalog is an immutable collection of validated risk definitions.
type Catalog struct {
	defs       []RiskDefinition
	byCategory map[domain.Category][]RiskDefinition
}

// New validates the definitions and builds a Catalog. It enforces unique
// names, positive weights, ordered meta ranges, and the per-mode weight basis.
func New(defs []RiskDefinition) (*Catalog, error) {
	seen := make(map[string]bool, len(defs))
	byCategory := make(map[domain.Category][]RiskDefinition)

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("catalog: definition with empty name")
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("catalog: duplicate definition name %q", def.Name)
		}
		seen[def.Name] = true

		if def.Category != domain.CategoryDisease && def.Category != domain.CategoryPest {
			return nil, fmt.Errorf("catalog: definition %q has unknown category %q", def.Name, def.Category)
		}
		if len(def.Conditions) == 0 {
			return nil, fmt.Errorf("catalog: definition %q has no conditions", def.Name)
		}
		if err := validateConditions(def); err != nil {
			return nil, err
		}

		byCategory[def.Category] = append(byCategory[def.Category], def)
	}

	return &Catalog{defs: defs, byCategory: byCategory}, nil
}

// MustNew is New for static tables; it panics on invalid data.
func MustNew(defs []RiskDefinition) *Catalog {
	c, err := New(defs)
	if err != nil {
		panic(err)
	}
	return c
}

func validateConditions(def RiskDefinition) error {
	var standardSum, metaSum float64

	for _, cond := range def.Conditions {
		if cond.Label == "" {
			return fmt.Errorf("catalog: definition %q has a condition without a label", def.Name)
		}
		if cond.Weight <= 0 {
			return fmt.Errorf("catalog: definition %q condition %q has non-positive weight", def.Name, cond.Label)
		}
		if cond.Compare == CompareInRange && cond.Min > cond.Max {
			return fmt.Errorf("catalog: definition %q condition %q has inverted range", def.Name, cond.Label)
		}
		if m := cond.Meta; m != nil {
			ordered := m.MarginalMin <= m.OptimalMin &&
				m.OptimalMin <= m.OptimalMax &&
				m.OptimalMax <= m.MarginalMax
			if !ordered {
				return fmt.Errorf("catalog: definition %q condition %q has unordered meta range", def.Name, cond.Label)
			}
		}

		if cond.AppliesTo(domain.ModeStandard) {
			standardSum += cond.Weight
		}
		if cond.AppliesTo(domain.ModeMeta) {
			metaSum += cond.Weight
		}
	}

	if math.Abs(standardSum-weightBasis) > 1e-9 {
		return fmt.Errorf("catalog: definition %q standard weights sum to %g, want %g", def.Name, standardSum, weightBasis)
	}
	if math.Abs(metaSum-weightBasis) > 1e-9 {
		return fmt.Errorf("catalog: definition %q meta weights sum to %g, want %g", def.Name, metaSum, weightBasis)
	}
	return nil
}

// Definitions returns all definitions in catalog order.
func (c *Catalog) Definitions() []RiskDefinition {
	return c.defs
}

// ByCategory returns the definitions for one category, in catalog order.
// Unsupported categories yield nil.
func (c *Catalog) ByCategory(cat domain.Category) []RiskDefinition {
	return c.byCategory[cat]
}

// Len reports the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Store is a process-wide catalog reference. Reloads swap the whole catalog
// pointer atomically so concurrent evaluations never observe a
// partially-updated table.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store holding the given catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the active catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace atomically swaps in a new catalog.
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}
