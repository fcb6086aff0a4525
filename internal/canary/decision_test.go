package canary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/evo-warden/internal/core"
)

func testCanary(started time.Time) *core.CanaryModel {
	return &core.CanaryModel{
		ID:                 "canary-1",
		Tenant:             "acme",
		Name:               "flash-tuned",
		Version:            "v2",
		Status:             core.CanaryTesting,
		TrafficPercentage:  10,
		ComparisonBaseline: "baseline-1",
		TestingStartedAt:   &started,
		PromotionCriteria: core.PromotionCriteria{
			MinTestDurationHours: 24,
			MinRequestCount:      1000,
			MaxErrorRate:         0.05,
			MinAccuracy:          0.90,
			MinUserSatisfaction:  3.5,
			AutoPromote:          true,
		},
		Metrics: core.CanaryMetrics{
			RequestCount: 5000,
			ErrorRate:    0.01,
			Accuracy:     0.95,
			UserSatisfaction: core.UserSatisfaction{
				Rating: 4.2,
			},
		},
		CreatedAt: started,
	}
}

func testBaseline() *core.CanaryModel {
	return &core.CanaryModel{
		ID:     "baseline-1",
		Tenant: "acme",
		Name:   "flash",
		Status: core.CanaryActive,
		Metrics: core.CanaryMetrics{
			RequestCount: 50000,
			ErrorRate:    0.02,
			Accuracy:     0.92,
			ResponseTime: core.ResponseTimes{Average: 200},
			Throughput:   100,
			UserSatisfaction: core.UserSatisfaction{
				Rating: 4.0,
			},
		},
	}
}

func TestShouldPromoteCanary(t *testing.T) {
	started := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	afterWindow := started.Add(48 * time.Hour)

	t.Run("blocks until the minimum test duration has elapsed", func(t *testing.T) {
		model := testCanary(started)
		decision := ShouldPromoteCanary(model, testBaseline(), started.Add(2*time.Hour))

		assert.False(t, decision.Promote)
		assert.False(t, decision.Rollback)
		assert.Equal(t, "Test duration 2.0h < required 24h", decision.Reason)
	})

	t.Run("duration failure dominates a simultaneous threshold failure", func(t *testing.T) {
		model := testCanary(started)
		model.Metrics.ErrorRate = 0.50

		decision := ShouldPromoteCanary(model, testBaseline(), started.Add(time.Hour))

		assert.False(t, decision.Rollback, "error rate must not be evaluated before duration")
		assert.Contains(t, decision.Reason, "Test duration")
	})

	t.Run("blocks on insufficient traffic without rolling back", func(t *testing.T) {
		model := testCanary(started)
		model.Metrics.RequestCount = 10

		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.False(t, decision.Promote)
		assert.False(t, decision.Rollback)
		assert.Equal(t, "Request count 10 < required 1000", decision.Reason)
	})

	t.Run("rolls back on excessive error rate", func(t *testing.T) {
		model := testCanary(started)
		model.Metrics.ErrorRate = 0.08

		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.True(t, decision.Rollback)
		assert.Equal(t, "Error rate 8.00% > threshold 5.00%", decision.Reason)
	})

	t.Run("rolls back on accuracy below the floor", func(t *testing.T) {
		model := testCanary(started)
		model.Metrics.Accuracy = 0.80

		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.True(t, decision.Rollback)
		assert.Equal(t, "Accuracy 80.00% < threshold 90.00%", decision.Reason)
	})

	t.Run("rolls back on user satisfaction below the floor", func(t *testing.T) {
		model := testCanary(started)
		model.Metrics.UserSatisfaction.Rating = 2.1

		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.True(t, decision.Rollback)
		assert.Equal(t, "User satisfaction 2.10 < threshold 3.50", decision.Reason)
	})

	t.Run("promotes with a baseline comparison when all criteria pass", func(t *testing.T) {
		model := testCanary(started)
		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.True(t, decision.Promote)
		assert.False(t, decision.Rollback)
		assert.Equal(t, "All promotion criteria met", decision.Reason)
		require.NotNil(t, decision.Comparison)
		assert.Equal(t, model.ID, decision.Comparison.CanaryID)
		assert.Equal(t, "baseline-1", decision.Comparison.BaselineID)
	})

	t.Run("falls back to CreatedAt when testing start is unset", func(t *testing.T) {
		model := testCanary(started)
		model.TestingStartedAt = nil

		decision := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.True(t, decision.Promote)
	})

	t.Run("is deterministic for identical inputs", func(t *testing.T) {
		model := testCanary(started)
		first := ShouldPromoteCanary(model, testBaseline(), afterWindow)
		second := ShouldPromoteCanary(model, testBaseline(), afterWindow)

		assert.Equal(t, first.Promote, second.Promote)
		assert.Equal(t, first.Reason, second.Reason)
	})
}

func TestCompareWithBaseline(t *testing.T) {
	now := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	t.Run("computes percentage deltas against the baseline", func(t *testing.T) {
		model := testCanary(now)
		model.Metrics.ResponseTime.Average = 150
		model.Metrics.Throughput = 120

		cmp := CompareWithBaseline(model, testBaseline(), now)

		// Faster canary: (200-150)/200 = +25%.
		assert.InDelta(t, 25.0, cmp.Results.Performance.ResponseTime, 0.001)
		// Error rate keeps its natural sign: (0.01-0.02)/0.02 = -50%.
		assert.InDelta(t, -50.0, cmp.Results.Performance.ErrorRate, 0.001)
		assert.InDelta(t, 20.0, cmp.Results.Performance.Throughput, 0.001)
		assert.Equal(t, now, cmp.CreatedAt)
	})

	t.Run("zero baseline values yield zero deltas", func(t *testing.T) {
		model := testCanary(now)
		baseline := testBaseline()
		baseline.Metrics.Throughput = 0

		cmp := CompareWithBaseline(model, baseline, now)

		assert.Zero(t, cmp.Results.Performance.Throughput)
	})

	t.Run("broad regressions recommend rollback", func(t *testing.T) {
		model := testCanary(now)
		model.Metrics.ResponseTime.Average = 400
		model.Metrics.Accuracy = 0.70
		model.Metrics.ErrorRate = 0.10
		model.Metrics.Throughput = 40
		model.Metrics.UserSatisfaction.Rating = 2.0

		cmp := CompareWithBaseline(model, testBaseline(), now)

		assert.Equal(t, core.RecommendRollback, cmp.Recommendation)
		assert.NotEmpty(t, cmp.Reasoning)
	})
}
