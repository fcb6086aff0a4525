package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/sevigo/evo-warden/internal/core"
)

// SaveCanary inserts a new canary model.
func (s *postgresStore) SaveCanary(ctx context.Context, m *core.CanaryModel) error {
	configuration, err := toJSON(m.Configuration)
	if err != nil {
		return err
	}
	metrics, err := toJSON(m.Metrics)
	if err != nil {
		return err
	}
	criteria, err := toJSON(m.PromotionCriteria)
	if err != nil {
		return err
	}
	metadata, err := toJSON(m.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO canary_models
			(id, tenant, name, version, configuration, status, traffic_percentage, metrics,
			 comparison_baseline, promotion_criteria, testing_started_at, promoted_at, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = s.db.ExecContext(ctx, query,
		m.ID, m.Tenant, m.Name, m.Version, configuration, m.Status, m.TrafficPercentage, metrics,
		m.ComparisonBaseline, criteria, m.TestingStartedAt, m.PromotedAt, metadata, m.CreatedAt)
	return err
}

// UpdateCanary replaces the mutable fields of a canary model.
func (s *postgresStore) UpdateCanary(ctx context.Context, m *core.CanaryModel) error {
	metrics, err := toJSON(m.Metrics)
	if err != nil {
		return err
	}
	metadata, err := toJSON(m.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE canary_models
		SET status = $1, traffic_percentage = $2, metrics = $3, testing_started_at = $4, promoted_at = $5, metadata = $6
		WHERE id = $7`
	res, err := s.db.ExecContext(ctx, query,
		m.Status, m.TrafficPercentage, metrics, m.TestingStartedAt, m.PromotedAt, metadata, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetCanary loads one canary model by id.
func (s *postgresStore) GetCanary(ctx context.Context, id string) (*core.CanaryModel, error) {
	query := canarySelect + ` WHERE id = $1`
	return s.scanCanary(s.db.QueryRowContext(ctx, query, id))
}

// ListCanariesByStatus returns the tenant's canaries in any of the given
// statuses, oldest first.
func (s *postgresStore) ListCanariesByStatus(ctx context.Context, tenant string, statuses ...core.CanaryStatus) ([]*core.CanaryModel, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	query := canarySelect + `
		WHERE tenant = $1 AND status = ANY($2)
		ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, tenant, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []*core.CanaryModel
	for rows.Next() {
		m, err := s.scanCanary(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

const canarySelect = `
	SELECT id, tenant, name, version, configuration, status, traffic_percentage, metrics,
	       comparison_baseline, promotion_criteria, testing_started_at, promoted_at, metadata, created_at
	FROM canary_models`

func (s *postgresStore) scanCanary(row rowScanner) (*core.CanaryModel, error) {
	var m core.CanaryModel
	var configuration, metrics, criteria, metadata []byte
	err := row.Scan(&m.ID, &m.Tenant, &m.Name, &m.Version, &configuration, &m.Status, &m.TrafficPercentage, &metrics,
		&m.ComparisonBaseline, &criteria, &m.TestingStartedAt, &m.PromotedAt, &metadata, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fromJSON(configuration, &m.Configuration); err != nil {
		return nil, err
	}
	if err := fromJSON(metrics, &m.Metrics); err != nil {
		return nil, err
	}
	if err := fromJSON(criteria, &m.PromotionCriteria); err != nil {
		return nil, err
	}
	if err := fromJSON(metadata, &m.Metadata); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveComparison appends one comparison record.
func (s *postgresStore) SaveComparison(ctx context.Context, c *core.ModelComparison) error {
	results, err := toJSON(c.Results)
	if err != nil {
		return err
	}
	reasoning, err := toJSON(c.Reasoning)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO model_comparisons (id, canary_id, baseline_id, results, recommendation, confidence, reasoning, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.CanaryID, c.BaselineID, results, c.Recommendation, c.Confidence, reasoning, c.CreatedAt)
	return err
}

// GetSettings loads the tenant's settings row.
func (s *postgresStore) GetSettings(ctx context.Context, tenant string) (*core.EvolutionSettings, error) {
	query := `
		SELECT tenant, enabled, features, safeguards, updated_at
		FROM evolution_settings
		WHERE tenant = $1`

	var settings core.EvolutionSettings
	var features, safeguards []byte
	err := s.db.QueryRowContext(ctx, query, tenant).
		Scan(&settings.Tenant, &settings.Enabled, &features, &safeguards, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fromJSON(features, &settings.Features); err != nil {
		return nil, err
	}
	if err := fromJSON(safeguards, &settings.Safeguards); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings upserts the tenant's single settings row.
func (s *postgresStore) SaveSettings(ctx context.Context, settings *core.EvolutionSettings) error {
	features, err := toJSON(settings.Features)
	if err != nil {
		return err
	}
	safeguards, err := toJSON(settings.Safeguards)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO evolution_settings (tenant, enabled, features, safeguards, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant) DO UPDATE
		SET enabled = EXCLUDED.enabled, features = EXCLUDED.features,
		    safeguards = EXCLUDED.safeguards, updated_at = EXCLUDED.updated_at`
	_, err = s.db.ExecContext(ctx, query,
		settings.Tenant, settings.Enabled, features, safeguards, settings.UpdatedAt)
	return err
}
