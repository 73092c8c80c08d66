package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports a required reading field that is missing or not a
// number. It is the only error the normalizer produces.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reading: field %q %s", e.Field, e.Reason)
}

// aliases maps each canonical parameter name to its historical alternate.
// When both are present the canonical name wins.
var aliases = map[Param]string{
	ParamRelativeHumidity: "relativeHumidity",
	ParamWeeklyRainfall:   "rainfall",
	ParamLeafWetness:      "wetnessHours",
}

// NormalizeParams reconciles a loosely-typed parameter bag into a canonical
// ClimateReading. Field values may arrive as JSON numbers, json.Number, or
// numeric strings; required fields that are missing or non-numeric yield a
// *ValidationError naming the field. Optional and advisory fields degrade to
// unknown instead of failing. The transformation is pure.
func NormalizeParams(params map[string]any) (ClimateReading, error) {
	var reading ClimateReading
	var err error

	required := []struct {
		param Param
		dst   *float64
	}{
		{ParamTemperature, &reading.Temperature},
		{ParamRelativeHumidity, &reading.RelativeHumidity},
		{ParamWeeklyRainfall, &reading.WeeklyRainfall},
		{ParamLeafWetness, &reading.LeafWetness},
		{ParamWindSpeed, &reading.WindSpeed},
	}
	for _, f := range required {
		*f.dst, err = requiredNumber(params, f.param)
		if err != nil {
			return ClimateReading{}, err
		}
	}

	reading.SoilMoisture = optionalNumber(params, ParamSoilMoisture)
	reading.CanopyHumidity = optionalNumber(params, ParamCanopyHumidity)

	reading.DustLevel = normalizeDustLevel(params[string(ParamDustLevel)])
	reading.Drainage = normalizeDrainage(params[string(ParamDrainage)])

	reading.HasStandingWater48h = truthy(params[string(ParamStandingWater48h)])
	reading.HasTempJump10C = truthy(params[string(ParamTempJump10C)])
	reading.HadDroughtThenHeavyRain = truthy(params[string(ParamDroughtThenRain)])

	return reading, nil
}

// lookupParam resolves a parameter from the bag, preferring the canonical
// name over its historical alias.
func lookupParam(params map[string]any, p Param) (any, bool) {
	if v, ok := params[string(p)]; ok && v != nil {
		return v, true
	}
	if alt, ok := aliases[p]; ok {
		if v, ok := params[alt]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func requiredNumber(params map[string]any, p Param) (float64, error) {
	v, ok := lookupParam(params, p)
	if !ok {
		return 0, &ValidationError{Field: string(p), Reason: "is required"}
	}
	n, ok := coerceNumber(v)
	if !ok {
		return 0, &ValidationError{Field: string(p), Reason: "must be a number"}
	}
	return n, nil
}

// optionalNumber returns nil when the parameter is absent or malformed.
// Optional fields are advisory, so a bad value degrades to unknown rather
// than failing the reading.
func optionalNumber(params map[string]any, p Param) *float64 {
	v, ok := lookupParam(params, p)
	if !ok {
		return nil
	}
	n, ok := coerceNumber(v)
	if !ok {
		return nil
	}
	return &n
}

// coerceNumber converts any numeric-looking value into a finite float64.
func coerceNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	// Strings like "NaN" and "Inf" parse successfully but violate the
	// finite-reading invariant.
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// truthy coerces a flag value: nil, false, zero, "" and the strings
// "false"/"0" are false, anything else is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case json.Number:
		n, err := val.Float64()
		return err == nil && n != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && s != "false" && s != "0"
	default:
		return true
	}
}

func normalizeDustLevel(v any) DustLevel {
	s, _ := v.(string)
	switch DustLevel(strings.ToLower(strings.TrimSpace(s))) {
	case DustLow:
		return DustLow
	case DustMedium:
		return DustMedium
	case DustHigh:
		return DustHigh
	default:
		return DustUnknown
	}
}

func normalizeDrainage(v any) Drainage {
	s, _ := v.(string)
	switch Drainage(strings.ToLower(strings.TrimSpace(s))) {
	case DrainageGood:
		return DrainageGood
	case DrainagePoor:
		return DrainagePoor
	default:
		return DrainageUnknown
	}
}
