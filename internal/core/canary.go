package core

import "time"

// CanaryStatus tracks a canary model through its lifecycle. Status is
// monotonic except for the single testing→promoted or testing→rolled_back
// transition.
type CanaryStatus string

const (
	CanaryPending    CanaryStatus = "pending"
	CanaryTesting    CanaryStatus = "testing"
	CanaryActive     CanaryStatus = "active"
	CanaryPromoted   CanaryStatus = "promoted"
	CanaryRolledBack CanaryStatus = "rolled_back"
)

// ResponseTimes holds latency percentiles in milliseconds.
type ResponseTimes struct {
	P50     float64 `json:"p50"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
	Average float64 `json:"average"`
}

// TokenUsage accounts for model token consumption and its cost.
type TokenUsage struct {
	Input  int64   `json:"input"`
	Output int64   `json:"output"`
	Cost   float64 `json:"cost"`
}

// UserSatisfaction summarizes user-reported quality signals.
type UserSatisfaction struct {
	Rating     float64 `json:"rating"`
	Feedback   int     `json:"feedback"`
	Complaints int     `json:"complaints"`
}

// QualityMetrics scores generation quality dimensions in [0,1].
type QualityMetrics struct {
	Coherence  float64 `json:"coherence"`
	Relevance  float64 `json:"relevance"`
	Factuality float64 `json:"factuality"`
	Safety     float64 `json:"safety"`
}

// ResourceUsage reports infrastructure consumption of a deployed model.
type ResourceUsage struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	GPU    float64 `json:"gpu"`
}

// CanaryMetrics is the full live-metrics snapshot for a canary. Updates
// replace the whole structure; it is never partially written.
type CanaryMetrics struct {
	ResponseTime     ResponseTimes    `json:"response_time"`
	Accuracy         float64          `json:"accuracy"`
	ErrorRate        float64          `json:"error_rate"`
	Throughput       float64          `json:"throughput"`
	Latency          float64          `json:"latency"`
	TokenUsage       TokenUsage       `json:"token_usage"`
	UserSatisfaction UserSatisfaction `json:"user_satisfaction"`
	Quality          QualityMetrics   `json:"quality_metrics"`
	Resources        ResourceUsage    `json:"resource_usage"`
	RequestCount     int64            `json:"request_count"`
	CollectedAt      time.Time        `json:"collected_at"`
}

// PromotionCriteria are the quantitative thresholds a canary must clear before
// being declared the new baseline. Immutable once the canary is deployed.
type PromotionCriteria struct {
	MinTestDurationHours   int                `json:"min_test_duration_hours" validate:"gte=0"`
	MinRequestCount        int64              `json:"min_request_count" validate:"gte=0"`
	MaxErrorRate           float64            `json:"max_error_rate" validate:"gte=0,lte=1"`
	MinAccuracy            float64            `json:"min_accuracy" validate:"gte=0,lte=1"`
	MaxLatencyIncrease     float64            `json:"max_latency_increase"`
	MinUserSatisfaction    float64            `json:"min_user_satisfaction" validate:"gte=0,lte=5"`
	RequiredImprovements   map[string]float64 `json:"required_improvements,omitempty"`
	AutoPromote            bool               `json:"auto_promote"`
	RequiresManualApproval bool               `json:"requires_manual_approval"`
}

// CanaryModel is an alternative model configuration running alongside a
// baseline at partial traffic share, evaluated before full promotion.
type CanaryModel struct {
	ID                 string            `json:"id"`
	Tenant             string            `json:"tenant"`
	Name               string            `json:"name"`
	Version            string            `json:"version"`
	Configuration      map[string]any    `json:"configuration"`
	Status             CanaryStatus      `json:"status" validate:"oneof=pending testing active promoted rolled_back"`
	TrafficPercentage  int               `json:"traffic_percentage" validate:"gte=0,lte=100"`
	Metrics            CanaryMetrics     `json:"metrics"`
	ComparisonBaseline string            `json:"comparison_baseline"`
	PromotionCriteria  PromotionCriteria `json:"promotion_criteria"`
	TestingStartedAt   *time.Time        `json:"testing_started_at,omitempty"`
	PromotedAt         *time.Time        `json:"promoted_at,omitempty"`
	Metadata           map[string]any    `json:"metadata,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Recommendation is the outcome of one baseline comparison cycle.
type Recommendation string

const (
	RecommendPromote      Recommendation = "promote"
	RecommendRollback     Recommendation = "rollback"
	RecommendManualReview Recommendation = "manual_review"
)

// PerformanceDelta holds percentage deltas versus the baseline. Positive
// response-time, accuracy and throughput deltas are improvements; the error
// rate delta keeps its natural sign, so it is negative when improved.
type PerformanceDelta struct {
	ResponseTime float64 `json:"response_time"`
	Accuracy     float64 `json:"accuracy"`
	ErrorRate    float64 `json:"error_rate"`
	Throughput   float64 `json:"throughput"`
}

// QualityDelta holds percentage deltas over the quality sub-metrics.
type QualityDelta struct {
	Coherence  float64 `json:"coherence"`
	Relevance  float64 `json:"relevance"`
	Factuality float64 `json:"factuality"`
	Safety     float64 `json:"safety"`
}

// CostDelta holds the per-request token cost delta versus the baseline.
type CostDelta struct {
	PerRequest float64 `json:"per_request"`
}

// UserExperienceDelta holds the satisfaction delta versus the baseline.
type UserExperienceDelta struct {
	Satisfaction float64 `json:"satisfaction"`
}

// ComparisonResults groups all delta families of one evaluation cycle.
type ComparisonResults struct {
	Performance    PerformanceDelta    `json:"performance_delta"`
	Quality        QualityDelta        `json:"quality_delta"`
	Cost           CostDelta           `json:"cost_delta"`
	UserExperience UserExperienceDelta `json:"user_experience_delta"`
}

// ModelComparison is one canary-versus-baseline evaluation, retained for
// audit. One comparison is written per evaluation cycle.
type ModelComparison struct {
	ID             string            `json:"id"`
	CanaryID       string            `json:"canary_id"`
	BaselineID     string            `json:"baseline_id"`
	Results        ComparisonResults `json:"results"`
	Recommendation Recommendation    `json:"recommendation" validate:"oneof=promote rollback manual_review"`
	Confidence     float64           `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning      []string          `json:"reasoning"`
	CreatedAt      time.Time         `json:"created_at"`
}
