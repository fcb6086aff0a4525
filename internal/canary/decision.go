package canary

import (
	"fmt"
	"time"

	"github.com/sevigo/evo-warden/internal/core"
)

// Decision is the outcome of one promotion evaluation. At most one of Promote
// and Rollback is set; a reason always is.
type Decision struct {
	Promote    bool
	Rollback   bool
	Reason     string
	Comparison *core.ModelComparison
}

// ShouldPromoteCanary is a pure function of (model, baseline, now). Checks run
// in a fixed order and the first violation wins, so a duration failure always
// dominates threshold failures even when both apply:
//
//  1. minimum test duration
//  2. minimum request count
//  3. error rate ceiling (rollback)
//  4. accuracy floor (rollback)
//  5. user satisfaction floor (rollback)
//
// When every criterion passes, the decision carries a fresh baseline
// comparison.
func ShouldPromoteCanary(model, baseline *core.CanaryModel, now time.Time) Decision {
	criteria := model.PromotionCriteria

	started := model.CreatedAt
	if model.TestingStartedAt != nil {
		started = *model.TestingStartedAt
	}
	elapsed := now.Sub(started).Hours()
	if elapsed < float64(criteria.MinTestDurationHours) {
		return Decision{
			Reason: fmt.Sprintf("Test duration %.1fh < required %dh", elapsed, criteria.MinTestDurationHours),
		}
	}

	if model.Metrics.RequestCount < criteria.MinRequestCount {
		return Decision{
			Reason: fmt.Sprintf("Request count %d < required %d", model.Metrics.RequestCount, criteria.MinRequestCount),
		}
	}

	if model.Metrics.ErrorRate > criteria.MaxErrorRate {
		return Decision{
			Rollback: true,
			Reason: fmt.Sprintf("Error rate %.2f%% > threshold %.2f%%",
				model.Metrics.ErrorRate*100, criteria.MaxErrorRate*100),
		}
	}

	if model.Metrics.Accuracy < criteria.MinAccuracy {
		return Decision{
			Rollback: true,
			Reason: fmt.Sprintf("Accuracy %.2f%% < threshold %.2f%%",
				model.Metrics.Accuracy*100, criteria.MinAccuracy*100),
		}
	}

	if model.Metrics.UserSatisfaction.Rating < criteria.MinUserSatisfaction {
		return Decision{
			Rollback: true,
			Reason: fmt.Sprintf("User satisfaction %.2f < threshold %.2f",
				model.Metrics.UserSatisfaction.Rating, criteria.MinUserSatisfaction),
		}
	}

	return Decision{
		Promote:    true,
		Reason:     "All promotion criteria met",
		Comparison: CompareWithBaseline(model, baseline, now),
	}
}
