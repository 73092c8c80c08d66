package catalog

import "github.com/cropwatch/climate-risk-service/internal/domain"

// Builders for the static tables below. Weights are authored so that the
// conditions applicable to each mode sum to the 100-point basis.

func atLeast(p domain.Param, threshold, weight float64, label string) Condition {
	return Condition{Param: p, Compare: CompareAtLeast, Min: threshold, Weight: weight, Label: label}
}

func atMost(p domain.Param, threshold, weight float64, label string) Condition {
	return Condition{Param: p, Compare: CompareAtMost, Max: threshold, Weight: weight, Label: label}
}

func inRange(p domain.Param, min, max, weight float64, label string) Condition {
	return Condition{Param: p, Compare: CompareInRange, Min: min, Max: max, Weight: weight, Label: label}
}

func equals(p domain.Param, value string, weight float64, label string) Condition {
	return Condition{Param: p, Compare: CompareEquals, Value: value, Weight: weight, Label: label}
}

func isTrue(p domain.Param, weight float64, label string) Condition {
	return Condition{Param: p, Compare: CompareIsTrue, Weight: weight, Label: label}
}

// ranged attaches a meta partial-credit descriptor: full credit between
// optMin and optMax, linear decay out to marMin/marMax.
func ranged(c Condition, marMin, optMin, optMax, marMax float64) Condition {
	c.Meta = &MetaRange{MarginalMin: marMin, OptimalMin: optMin, OptimalMax: optMax, MarginalMax: marMax}
	return c
}

func standardOnly(c Condition) Condition {
	c.Scope = ScopeStandardOnly
	return c
}

func metaOnly(c Condition) Condition {
	c.Scope = ScopeMetaOnly
	return c
}

// Default returns the built-in orchard catalog. Thresholds reflect commonly
// published infection and activity windows for pome fruit; they are advisory
// heuristics, not forecasts.
func Default() *Catalog {
	return MustNew(defaultDefinitions)
}

var defaultDefinitions = []RiskDefinition{
	// ── Diseases ──

	{
		Name:     "Apple Scab",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 6, 24, 25, "temperature 6–24°C favours infection"), 2, 10, 20, 26),
			ranged(atLeast(domain.ParamLeafWetness, 6, 35, "leaf wetness ≥ 6h"), 4, 9, 24, 48),
			ranged(atLeast(domain.ParamRelativeHumidity, 85, 25, "relative humidity ≥ 85%"), 70, 90, 100, 100),
			ranged(atLeast(domain.ParamWeeklyRainfall, 10, 15, "rainfall ≥ 10 mm/week"), 5, 15, 60, 90),
		},
	},
	{
		Name:     "Powdery Mildew",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 15, 27, 30, "temperature 15–27°C"), 10, 18, 24, 30),
			ranged(atLeast(domain.ParamRelativeHumidity, 70, 30, "relative humidity ≥ 70%"), 50, 75, 90, 100),
			ranged(atMost(domain.ParamLeafWetness, 4, 25, "dry foliage (wetness ≤ 4h)"), 0, 0, 2, 6),
			ranged(atMost(domain.ParamWeeklyRainfall, 8, 15, "little rain (≤ 8 mm/week)"), 0, 0, 5, 15),
		},
	},
	{
		Name:     "Fire Blight",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 24, 35, "temperature ≥ 24°C"), 18, 24, 32, 38),
			ranged(atLeast(domain.ParamRelativeHumidity, 70, 25, "relative humidity ≥ 70%"), 55, 75, 100, 100),
			ranged(atLeast(domain.ParamWeeklyRainfall, 5, 20, "rain events (≥ 5 mm/week)"), 2, 8, 40, 80),
			ranged(atLeast(domain.ParamWindSpeed, 15, 20, "wind ≥ 15 km/h spreads ooze"), 8, 18, 60, 60),
		},
	},
	{
		Name:     "Cedar Apple Rust",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 10, 24, 30, "temperature 10–24°C"), 6, 12, 22, 26),
			ranged(atLeast(domain.ParamLeafWetness, 4, 40, "leaf wetness ≥ 4h"), 2, 6, 24, 36),
			ranged(atLeast(domain.ParamRelativeHumidity, 80, 30, "relative humidity ≥ 80%"), 65, 85, 100, 100),
		},
	},
	{
		Name:     "Collar Rot",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamSoilMoisture, 80, 35, "saturated soil (moisture ≥ 80%)"), 60, 85, 100, 100),
			ranged(atLeast(domain.ParamWeeklyRainfall, 40, 30, "heavy rain (≥ 40 mm/week)"), 25, 45, 150, 200),
			ranged(inRange(domain.ParamTemperature, 13, 26, 15, "temperature 13–26°C"), 8, 15, 24, 28),
			standardOnly(atLeast(domain.ParamRelativeHumidity, 85, 20, "relative humidity ≥ 85%")),
			metaOnly(equals(domain.ParamDrainage, string(domain.DrainagePoor), 12, "poor drainage")),
			metaOnly(isTrue(domain.ParamStandingWater48h, 8, "standing water > 48h")),
		},
	},
	{
		Name:     "Necrotic Leaf Blotch",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 26, 30, "hot spell (≥ 26°C)"), 20, 28, 36, 40),
			ranged(atLeast(domain.ParamRelativeHumidity, 65, 30, "relative humidity ≥ 65%"), 50, 70, 100, 100),
			ranged(atMost(domain.ParamWeeklyRainfall, 10, 20, "dry week (≤ 10 mm rain)"), 0, 0, 8, 20),
			standardOnly(atMost(domain.ParamLeafWetness, 6, 20, "limited wetness (≤ 6h)")),
			metaOnly(isTrue(domain.ParamTempJump10C, 12, "temperature swing > 10°C")),
			metaOnly(isTrue(domain.ParamDroughtThenRain, 8, "drought followed by heavy rain")),
		},
	},
	{
		Name:     "Sooty Blotch & Flyspeck",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamRelativeHumidity, 90, 30, "relative humidity ≥ 90%"), 75, 92, 100, 100),
			ranged(atLeast(domain.ParamLeafWetness, 8, 30, "prolonged wetness (≥ 8h)"), 5, 10, 24, 48),
			ranged(inRange(domain.ParamTemperature, 16, 28, 20, "temperature 16–28°C"), 12, 18, 26, 30),
			ranged(atMost(domain.ParamWindSpeed, 8, 20, "still canopy (wind ≤ 8 km/h)"), 0, 0, 6, 12),
		},
	},
	{
		Name:     "Bitter Rot",
		Category: domain.CategoryDisease,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 26, 30, "temperature ≥ 26°C"), 20, 27, 35, 40),
			ranged(atLeast(domain.ParamRelativeHumidity, 80, 25, "relative humidity ≥ 80%"), 65, 85, 100, 100),
			ranged(atLeast(domain.ParamWeeklyRainfall, 25, 25, "rainfall ≥ 25 mm/week"), 15, 30, 120, 180),
			standardOnly(atLeast(domain.ParamLeafWetness, 6, 20, "fruit wetness ≥ 6h")),
			metaOnly(isTrue(domain.ParamDroughtThenRain, 20, "drought followed by heavy rain")),
		},
	},

	// ── Pests ──

	{
		Name:     "Codling Moth",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 15, 32, 40, "flight temperature 15–32°C"), 10, 17, 30, 35),
			ranged(atMost(domain.ParamWindSpeed, 12, 30, "calm evenings (wind ≤ 12 km/h)"), 0, 0, 10, 18),
			ranged(inRange(domain.ParamRelativeHumidity, 40, 75, 30, "moderate humidity 40–75%"), 30, 45, 70, 85),
		},
	},
	{
		Name:     "Woolly Apple Aphid",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 18, 26, 35, "temperature 18–26°C"), 12, 19, 25, 30),
			ranged(atLeast(domain.ParamRelativeHumidity, 60, 35, "relative humidity ≥ 60%"), 45, 65, 90, 100),
			ranged(atMost(domain.ParamWeeklyRainfall, 15, 30, "colonies not washed off (rain ≤ 15 mm/week)"), 0, 0, 12, 30),
		},
	},
	{
		Name:     "European Red Mite",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 23, 30, "temperature ≥ 23°C"), 18, 24, 35, 40),
			ranged(atMost(domain.ParamRelativeHumidity, 60, 25, "dry air (RH ≤ 60%)"), 0, 0, 55, 70),
			ranged(atMost(domain.ParamWeeklyRainfall, 5, 15, "dry week (≤ 5 mm rain)"), 0, 0, 4, 12),
			standardOnly(atMost(domain.ParamLeafWetness, 2, 30, "dry foliage (wetness ≤ 2h)")),
			metaOnly(equals(domain.ParamDustLevel, string(domain.DustHigh), 30, "high dust on canopy")),
		},
	},
	{
		Name:     "Two-Spotted Spider Mite",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 27, 35, "hot weather (≥ 27°C)"), 22, 29, 38, 42),
			ranged(atMost(domain.ParamRelativeHumidity, 50, 35, "dry air (RH ≤ 50%)"), 0, 0, 45, 65),
			ranged(atMost(domain.ParamWeeklyRainfall, 3, 10, "near-zero rainfall"), 0, 0, 2, 8),
			standardOnly(atLeast(domain.ParamWindSpeed, 8, 20, "wind dispersal (≥ 8 km/h)")),
			metaOnly(equals(domain.ParamDustLevel, string(domain.DustHigh), 12, "high dust on canopy")),
			metaOnly(atMost(domain.ParamSoilMoisture, 25, 8, "drought-stressed trees (soil ≤ 25%)")),
		},
	},
	{
		Name:     "San Jose Scale",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(atLeast(domain.ParamTemperature, 20, 40, "temperature ≥ 20°C"), 15, 22, 35, 40),
			ranged(inRange(domain.ParamRelativeHumidity, 30, 70, 30, "moderate humidity 30–70%"), 20, 35, 65, 80),
			ranged(atMost(domain.ParamWindSpeed, 15, 30, "crawler dispersal (wind ≤ 15 km/h)"), 0, 0, 12, 25),
		},
	},
	{
		Name:     "Western Flower Thrips",
		Category: domain.CategoryPest,
		Conditions: []Condition{
			ranged(inRange(domain.ParamTemperature, 20, 32, 35, "temperature 20–32°C"), 15, 22, 30, 35),
			ranged(atMost(domain.ParamRelativeHumidity, 70, 25, "RH ≤ 70%"), 0, 0, 60, 85),
			ranged(atMost(domain.ParamWeeklyRainfall, 8, 20, "dry week (≤ 8 mm rain)"), 0, 0, 6, 18),
			standardOnly(atMost(domain.ParamWindSpeed, 20, 20, "wind ≤ 20 km/h")),
			metaOnly(atMost(domain.ParamCanopyHumidity, 65, 20, "canopy humidity ≤ 65%")),
		},
	},
}
