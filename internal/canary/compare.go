package canary

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/core"
)

// CompareWithBaseline computes percentage deltas between a canary and its
// baseline. Response time improves when the canary is faster, so its delta is
// (baseline-canary)/baseline. Error rate and cost keep their natural sign and
// are negative when improved; everything else is positive when improved.
func CompareWithBaseline(model, baseline *core.CanaryModel, now time.Time) *core.ModelComparison {
	cm, bm := model.Metrics, baseline.Metrics

	results := core.ComparisonResults{
		Performance: core.PerformanceDelta{
			ResponseTime: pctDelta(bm.ResponseTime.Average-cm.ResponseTime.Average, bm.ResponseTime.Average),
			Accuracy:     pctDelta(cm.Accuracy-bm.Accuracy, bm.Accuracy),
			ErrorRate:    pctDelta(cm.ErrorRate-bm.ErrorRate, bm.ErrorRate),
			Throughput:   pctDelta(cm.Throughput-bm.Throughput, bm.Throughput),
		},
		Quality: core.QualityDelta{
			Coherence:  pctDelta(cm.Quality.Coherence-bm.Quality.Coherence, bm.Quality.Coherence),
			Relevance:  pctDelta(cm.Quality.Relevance-bm.Quality.Relevance, bm.Quality.Relevance),
			Factuality: pctDelta(cm.Quality.Factuality-bm.Quality.Factuality, bm.Quality.Factuality),
			Safety:     pctDelta(cm.Quality.Safety-bm.Quality.Safety, bm.Quality.Safety),
		},
		Cost: core.CostDelta{
			PerRequest: pctDelta(costPerRequest(cm)-costPerRequest(bm), costPerRequest(bm)),
		},
		UserExperience: core.UserExperienceDelta{
			Satisfaction: pctDelta(cm.UserSatisfaction.Rating-bm.UserSatisfaction.Rating, bm.UserSatisfaction.Rating),
		},
	}

	recommendation, confidence, reasoning := recommend(results)

	return &core.ModelComparison{
		ID:             uuid.NewString(),
		CanaryID:       model.ID,
		BaselineID:     baseline.ID,
		Results:        results,
		Recommendation: recommendation,
		Confidence:     confidence,
		Reasoning:      reasoning,
		CreatedAt:      now,
	}
}

// dimension is one scored axis of the comparison. improved normalizes the
// delta so that positive always means better.
type dimension struct {
	name     string
	delta    float64
	improved float64
}

// recommend derives the verdict from the magnitude and consistency of the
// improvements: broadly positive deltas with confidence above 0.8 promote,
// broadly negative ones roll back, anything mixed goes to manual review.
func recommend(r core.ComparisonResults) (core.Recommendation, float64, []string) {
	dims := []dimension{
		{"response time", r.Performance.ResponseTime, r.Performance.ResponseTime},
		{"accuracy", r.Performance.Accuracy, r.Performance.Accuracy},
		{"error rate", r.Performance.ErrorRate, -r.Performance.ErrorRate},
		{"throughput", r.Performance.Throughput, r.Performance.Throughput},
		{"quality", avg(r.Quality.Coherence, r.Quality.Relevance, r.Quality.Factuality, r.Quality.Safety),
			avg(r.Quality.Coherence, r.Quality.Relevance, r.Quality.Factuality, r.Quality.Safety)},
		{"cost per request", r.Cost.PerRequest, -r.Cost.PerRequest},
		{"user satisfaction", r.UserExperience.Satisfaction, r.UserExperience.Satisfaction},
	}

	var improved, regressed int
	var magnitudeSum float64
	reasoning := make([]string, 0, len(dims))
	for _, d := range dims {
		switch {
		case d.improved > 0:
			improved++
			reasoning = append(reasoning, fmt.Sprintf("%s improved by %.2f%%", d.name, abs(d.delta)))
		case d.improved < 0:
			regressed++
			reasoning = append(reasoning, fmt.Sprintf("%s regressed by %.2f%%", d.name, abs(d.delta)))
		default:
			reasoning = append(reasoning, fmt.Sprintf("%s unchanged", d.name))
		}
		magnitudeSum += abs(d.improved)
	}

	share := float64(improved) / float64(len(dims))
	// Consistency dominates; magnitude tops confidence up, capped at a 25%
	// mean improvement.
	magnitude := magnitudeSum / float64(len(dims))
	if magnitude > 25 {
		magnitude = 25
	}
	confidence := share*0.75 + (magnitude/25)*0.25

	switch {
	case regressed == 0 && improved > 0 && confidence > 0.8:
		return core.RecommendPromote, confidence, reasoning
	case improved == 0 && regressed > 0:
		return core.RecommendRollback, confidence, reasoning
	case share <= 0.3:
		return core.RecommendRollback, confidence, reasoning
	default:
		return core.RecommendManualReview, confidence, reasoning
	}
}

func costPerRequest(m core.CanaryMetrics) float64 {
	if m.RequestCount == 0 {
		return 0
	}
	return m.TokenUsage.Cost / float64(m.RequestCount)
}

// pctDelta guards against a zero baseline, in which case the delta is
// reported as zero rather than infinite.
func pctDelta(diff, base float64) float64 {
	if base == 0 {
		return 0
	}
	return diff / base * 100
}

func avg(vals ...float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
