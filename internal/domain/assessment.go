package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// AssessmentInput is a parsed source-topic envelope: who asked, which mode and
// category, and the normalized reading. The category is kept as received —
// an unsupported value evaluates to an empty result list rather than an error.
type AssessmentInput struct {
	SiteID   string
	Mode     ScoringMode
	Category Category
	Reading  ClimateReading
}

// assessmentEnvelope is the wire shape of a source-topic message or HTTP
// request body. Params carries the loosely-typed bag handed to the normalizer.
type assessmentEnvelope struct {
	SiteID   string         `json:"siteId"`
	Mode     string         `json:"mode"`
	Category string         `json:"category"`
	Params   map[string]any `json:"params"`
}

// ParseAssessmentInput deserializes an assessment envelope and normalizes its
// parameter bag. Returns a *ValidationError (wrapped) when a required reading
// field is missing or malformed.
func ParseAssessmentInput(value []byte) (AssessmentInput, error) {
	var env assessmentEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return AssessmentInput{}, fmt.Errorf("parse assessment envelope: %w", err)
	}

	reading, err := NormalizeParams(env.Params)
	if err != nil {
		return AssessmentInput{}, fmt.Errorf("normalize reading: %w", err)
	}

	return AssessmentInput{
		SiteID:   env.SiteID,
		Mode:     ParseScoringMode(env.Mode),
		Category: Category(env.Category),
		Reading:  reading,
	}, nil
}

// Assessment is one completed evaluation: the canonical reading it was scored
// from and the ranked, explained results.
type Assessment struct {
	ID         string         `json:"id"`
	SiteID     string         `json:"site_id,omitempty"`
	Category   Category       `json:"category"`
	Mode       ScoringMode    `json:"mode"`
	Reading    ClimateReading `json:"reading"`
	Results    []RiskResult   `json:"results"`
	AssessedAt time.Time      `json:"assessed_at"`
}

// NewAssessment assembles an Assessment with a deterministic ID and an
// AssessedAt timestamp from the package clock. Deterministic IDs make replays
// idempotent: reprocessing the same source message produces the same ID.
func NewAssessment(input AssessmentInput, results []RiskResult) Assessment {
	return Assessment{
		ID:         assessmentID(input),
		SiteID:     input.SiteID,
		Category:   input.Category,
		Mode:       input.Mode,
		Reading:    input.Reading,
		Results:    results,
		AssessedAt: clock.Now().UTC(),
	}
}

// assessmentID hashes the identifying fields of an input. The reading is
// serialized through its canonical JSON form so alias spellings of the same
// reading hash identically.
func assessmentID(input AssessmentInput) string {
	reading, _ := json.Marshal(input.Reading)
	seed := fmt.Sprintf("%s|%s|%s|%s", input.SiteID, input.Category, input.Mode, reading)
	sum := sha256.Sum256([]byte(seed))
	short := hex.EncodeToString(sum[:8])
	if input.Category == "" {
		return "assess-" + short
	}
	return string(input.Category) + "-" + short
}
