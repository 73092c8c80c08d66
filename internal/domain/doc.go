// Package domain models climate readings and crop risk assessments.
//
// # Input Conventions
//
// Readings arrive as loosely-typed parameter bags, historically produced by a
// form UI and a satellite map auto-fill. Three fields carry two names each:
//
//	relative humidity:  "rh" (canonical) or "relativeHumidity"
//	weekly rainfall:    "weeklyRainfall" (canonical) or "rainfall"
//	leaf wetness hours: "leafWetness" (canonical) or "wetnessHours"
//
// When both names are present with different values the canonical one wins.
// Numeric values may arrive as JSON numbers or numeric strings ("21.5");
// both are accepted. Boolean flags are coerced by truthiness: nil, false,
// zero, "" and the strings "false"/"0" are false, anything else is true.
//
// # Unknown Values
//
// Soil moisture and canopy humidity are optional. An absent (or malformed)
// optional field is kept as an explicit unknown (nil pointer), never defaulted
// to zero: a zero default would be indistinguishable from a genuine 0% reading
// and would wrongly satisfy low-moisture conditions. Unknown fields are
// excluded from scoring entirely — they contribute to neither the earned score
// nor the achievable maximum.
//
// The categorical fields dust level ("low", "medium", "high") and drainage
// ("good", "poor") treat any unrecognized value as "unknown". They are
// advisory, so a malformed value degrades to unknown instead of failing the
// whole reading.
//
// # Scoring Modes
//
// Two modes select how catalog conditions are scored:
//
//	standard — discrete rule match: a condition earns its full weight or nothing.
//	meta     — continuous range match: numeric conditions with a range
//	           descriptor earn partial credit by membership degree.
//
// An unrecognized mode string falls back to standard; defaulting is safer
// than refusing an assessment.
//
// # Risk Levels
//
// Scores are bounded to [0,100] and bucketed into qualitative levels:
// Low below the medium threshold, Medium below the high threshold, High at or
// above it. The default thresholds (34/67) are calibratable configuration,
// not derived constants.
//
// # Assessment IDs
//
// Assessment IDs are deterministic SHA-256 hashes of site, category, mode and
// the canonical reading. Replaying the same source message yields the same ID,
// so downstream consumers can deduplicate without coordination. See [NewAssessment].
package domain
