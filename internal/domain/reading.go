package domain

import (
	"context"
	"time"
)

// Param identifies one field of a ClimateReading. The string values are the
// canonical wire names used by the form UI and the map auto-fill.
type Param string

const (
	ParamTemperature      Param = "temperature"
	ParamRelativeHumidity Param = "rh"
	ParamWeeklyRainfall   Param = "weeklyRainfall"
	ParamLeafWetness      Param = "leafWetness"
	ParamWindSpeed        Param = "windSpeed"
	ParamSoilMoisture     Param = "soilMoisture"
	ParamCanopyHumidity   Param = "canopyHumidity"
	ParamDustLevel        Param = "dustLevel"
	ParamDrainage         Param = "drainage"
	ParamStandingWater48h Param = "hasStandingWater48h"
	ParamTempJump10C      Param = "hasTempJump10C"
	ParamDroughtThenRain  Param = "hadDroughtThenHeavyRain"
)

// DustLevel is the reported airborne dust load on the canopy.
type DustLevel string

const (
	DustUnknown DustLevel = "unknown"
	DustLow     DustLevel = "low"
	DustMedium  DustLevel = "medium"
	DustHigh    DustLevel = "high"
)

// Drainage is the reported soil drainage quality.
type Drainage string

const (
	DrainageUnknown Drainage = "unknown"
	DrainageGood    Drainage = "good"
	DrainagePoor    Drainage = "poor"
)

// ScoringMode selects discrete (standard) or range-based (meta) scoring.
type ScoringMode string

const (
	ModeStandard ScoringMode = "standard"
	ModeMeta     ScoringMode = "meta"
)

// ParseScoringMode maps a mode string to a ScoringMode. Anything other than
// "meta" falls back to standard rather than failing the assessment.
func ParseScoringMode(s string) ScoringMode {
	if s == string(ModeMeta) {
		return ModeMeta
	}
	return ModeStandard
}

// Category partitions the risk catalog into diseases and pests.
type Category string

const (
	CategoryDisease Category = "disease"
	CategoryPest    Category = "pest"
)

// Categories lists the supported catalog categories.
func Categories() []Category {
	return []Category{CategoryDisease, CategoryPest}
}

// RiskLevel is the qualitative bucket derived from a numeric score.
type RiskLevel string

const (
	LevelLow    RiskLevel = "Low"
	LevelMedium RiskLevel = "Medium"
	LevelHigh   RiskLevel = "High"
)

// ClimateReading is the canonical, fully-typed snapshot of one assessment's
// inputs. Required numeric fields are always finite; optional fields are nil
// when unknown and never participate in scoring.
type ClimateReading struct {
	Temperature      float64 `json:"temperature"`      // °C
	RelativeHumidity float64 `json:"rh"`               // %
	WeeklyRainfall   float64 `json:"weeklyRainfall"`   // mm/week
	LeafWetness      float64 `json:"leafWetness"`      // hours
	WindSpeed        float64 `json:"windSpeed"`        // km/h

	SoilMoisture   *float64 `json:"soilMoisture,omitempty"`   // %, nil = unknown
	CanopyHumidity *float64 `json:"canopyHumidity,omitempty"` // %, nil = unknown

	DustLevel DustLevel `json:"dustLevel"`
	Drainage  Drainage  `json:"drainage"`

	HasStandingWater48h     bool `json:"hasStandingWater48h"`
	HasTempJump10C          bool `json:"hasTempJump10C"`
	HadDroughtThenHeavyRain bool `json:"hadDroughtThenHeavyRain"`
}

// Numeric returns the value of a numeric parameter and whether it is known.
// Optional parameters report known=false when unset; non-numeric parameters
// always report known=false.
func (r ClimateReading) Numeric(p Param) (float64, bool) {
	switch p {
	case ParamTemperature:
		return r.Temperature, true
	case ParamRelativeHumidity:
		return r.RelativeHumidity, true
	case ParamWeeklyRainfall:
		return r.WeeklyRainfall, true
	case ParamLeafWetness:
		return r.LeafWetness, true
	case ParamWindSpeed:
		return r.WindSpeed, true
	case ParamSoilMoisture:
		if r.SoilMoisture == nil {
			return 0, false
		}
		return *r.SoilMoisture, true
	case ParamCanopyHumidity:
		if r.CanopyHumidity == nil {
			return 0, false
		}
		return *r.CanopyHumidity, true
	default:
		return 0, false
	}
}

// Categorical returns the value of a categorical parameter and whether it is
// known. The "unknown" enum value counts as not known so that conditions on
// dust or drainage are skipped rather than failed.
func (r ClimateReading) Categorical(p Param) (string, bool) {
	switch p {
	case ParamDustLevel:
		return string(r.DustLevel), r.DustLevel != DustUnknown && r.DustLevel != ""
	case ParamDrainage:
		return string(r.Drainage), r.Drainage != DrainageUnknown && r.Drainage != ""
	default:
		return "", false
	}
}

// Flag returns the value of a boolean parameter and whether the parameter is
// a flag at all. Flags are always known: absence was coerced to false by the
// normalizer.
func (r ClimateReading) Flag(p Param) (bool, bool) {
	switch p {
	case ParamStandingWater48h:
		return r.HasStandingWater48h, true
	case ParamTempJump10C:
		return r.HasTempJump10C, true
	case ParamDroughtThenRain:
		return r.HadDroughtThenHeavyRain, true
	default:
		return false, false
	}
}

// RiskResult is one ranked, explained catalog entry evaluation.
// MatchedFactors preserves catalog condition order and is empty (never nil)
// when nothing contributed.
type RiskResult struct {
	Name           string    `json:"name"`
	Score          float64   `json:"score"` // 0–100
	Level          RiskLevel `json:"level"`
	MatchedFactors []string  `json:"matchedFactors"`
}

// RawReading is an unprocessed message from the source topic.
type RawReading struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
