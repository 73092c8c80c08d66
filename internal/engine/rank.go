package engine

import (
	"sort"

	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// Rank orders results by score descending, breaking ties by ascending name so
// ordering is deterministic regardless of catalog iteration order, and
// truncates to limit. A negative limit disables truncation. The input slice
// is never mutated.
func Rank(results []domain.RiskResult, limit int) []domain.RiskResult {
	ranked := make([]domain.RiskResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
