package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cropwatch/climate-risk-service/internal/domain"
	"github.com/cropwatch/climate-risk-service/internal/engine"
	"github.com/cropwatch/climate-risk-service/internal/observability"
)

// ReadingAssessor implements Assessor by parsing the source envelope, scoring
// it against the catalog, and ranking the results.
type ReadingAssessor struct {
	evaluator *engine.Evaluator
	logger    *slog.Logger
	metrics   *observability.Metrics
	limit     int
}

// NewAssessor creates a ReadingAssessor. limit bounds the number of ranked
// results carried on each assessment.
func NewAssessor(evaluator *engine.Evaluator, logger *slog.Logger, metrics *observability.Metrics, limit int) *ReadingAssessor {
	return &ReadingAssessor{
		evaluator: evaluator,
		logger:    logger,
		metrics:   metrics,
		limit:     limit,
	}
}

func (a *ReadingAssessor) Assess(_ context.Context, raw domain.RawReading) (domain.Assessment, error) {
	start := time.Now()

	input, err := domain.ParseAssessmentInput(raw.Value)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			a.metrics.ValidationErrors.Inc()
		}
		return domain.Assessment{}, err
	}

	results := a.evaluator.Evaluate(input.Reading, input.Mode, input.Category)
	ranked := engine.Rank(results, a.limit)
	assessment := domain.NewAssessment(input, ranked)

	a.metrics.AssessmentsTotal.WithLabelValues(string(input.Category), string(input.Mode)).Inc()
	a.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())

	a.logger.Debug("reading assessed",
		"assessment_id", assessment.ID,
		"site_id", input.SiteID,
		"category", input.Category,
		"mode", input.Mode,
		"results", len(ranked),
	)
	return assessment, nil
}
