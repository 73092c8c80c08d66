package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// catalogFile is the on-disk YAML shape of a catalog. Thresholds live under
// min/max mirroring the Condition struct: atLeast reads min, atMost reads max.
type catalogFile struct {
	Definitions []definitionYAML `yaml:"definitions"`
}

type definitionYAML struct {
	Name       string          `yaml:"name"`
	Category   string          `yaml:"category"`
	Conditions []conditionYAML `yaml:"conditions"`
}

type conditionYAML struct {
	Param   string         `yaml:"param"`
	Compare string         `yaml:"compare"`
	Min     float64        `yaml:"min"`
	Max     float64        `yaml:"max"`
	Value   string         `yaml:"value"`
	Weight  float64        `yaml:"weight"`
	Label   string         `yaml:"label"`
	Scope   string         `yaml:"scope"` // "", "standard", or "meta"
	Meta    *metaRangeYAML `yaml:"meta"`
}

type metaRangeYAML struct {
	OptimalMin  float64 `yaml:"optimalMin"`
	OptimalMax  float64 `yaml:"optimalMax"`
	MarginalMin float64 `yaml:"marginalMin"`
	MarginalMax float64 `yaml:"marginalMax"`
}

// LoadFile reads a catalog from a YAML file and validates it exactly like the
// built-in tables.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated Catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	defs := make([]RiskDefinition, 0, len(file.Definitions))
	for _, d := range file.Definitions {
		def := RiskDefinition{
			Name:     d.Name,
			Category: domain.Category(d.Category),
		}
		for _, c := range d.Conditions {
			cond, err := c.toCondition()
			if err != nil {
				return nil, fmt.Errorf("catalog definition %q: %w", d.Name, err)
			}
			def.Conditions = append(def.Conditions, cond)
		}
		defs = append(defs, def)
	}

	return New(defs)
}

func (c conditionYAML) toCondition() (Condition, error) {
	cond := Condition{
		Param:  domain.Param(c.Param),
		Label:  c.Label,
		Weight: c.Weight,
		Min:    c.Min,
		Max:    c.Max,
		Value:  c.Value,
	}

	switch c.Compare {
	case "atLeast":
		cond.Compare = CompareAtLeast
	case "atMost":
		cond.Compare = CompareAtMost
	case "inRange":
		cond.Compare = CompareInRange
	case "equals":
		cond.Compare = CompareEquals
	case "isTrue":
		cond.Compare = CompareIsTrue
	case "isFalse":
		cond.Compare = CompareIsFalse
	default:
		return Condition{}, fmt.Errorf("condition %q has unknown compare %q", c.Label, c.Compare)
	}

	switch c.Scope {
	case "":
		cond.Scope = ScopeBoth
	case "standard":
		cond.Scope = ScopeStandardOnly
	case "meta":
		cond.Scope = ScopeMetaOnly
	default:
		return Condition{}, fmt.Errorf("condition %q has unknown scope %q", c.Label, c.Scope)
	}

	if c.Meta != nil {
		cond.Meta = &MetaRange{
			OptimalMin:  c.Meta.OptimalMin,
			OptimalMax:  c.Meta.OptimalMax,
			MarginalMin: c.Meta.MarginalMin,
			MarginalMax: c.Meta.MarginalMax,
		}
	}

	return cond, nil
}
