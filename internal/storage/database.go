// Package storage implements core.Store on PostgreSQL. Nested structures are
// stored as JSONB; serialization never leaks out of this package.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/evo-warden/internal/core"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a core.Store backed by PostgreSQL.
func NewStore(db *sqlx.DB) core.Store {
	return &postgresStore{db: db}
}

// toJSON marshals a nested structure for a JSONB column.
func toJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jsonb value: %w", err)
	}
	return b, nil
}

// fromJSON fills dst from a JSONB column; a NULL column leaves dst untouched.
func fromJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode jsonb value: %w", err)
	}
	return nil
}

// SaveAnalysisResult appends one analysis result to the history.
func (s *postgresStore) SaveAnalysisResult(ctx context.Context, result *core.AnalysisResult) error {
	findings, err := toJSON(result.Findings)
	if err != nil {
		return err
	}
	metrics, err := toJSON(result.Metrics)
	if err != nil {
		return err
	}
	errs, err := toJSON(result.Errors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO analysis_results (id, tenant, pass, commit_sha, findings, metrics, confidence, severity, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = s.db.ExecContext(ctx, query,
		result.ID, result.Tenant, result.Pass, result.CommitSHA,
		findings, metrics, result.Confidence, result.Severity, errs, result.CreatedAt)
	return err
}

// LatestAnalysisResult returns the most recent result for one pass.
func (s *postgresStore) LatestAnalysisResult(ctx context.Context, tenant string, pass core.AnalysisPass) (*core.AnalysisResult, error) {
	query := `
		SELECT id, tenant, pass, commit_sha, findings, metrics, confidence, severity, errors, created_at
		FROM analysis_results
		WHERE tenant = $1 AND pass = $2
		ORDER BY created_at DESC
		LIMIT 1`
	return s.scanAnalysisResult(s.db.QueryRowContext(ctx, query, tenant, pass))
}

// ListAnalysisResults returns all results created since the given time, newest
// first.
func (s *postgresStore) ListAnalysisResults(ctx context.Context, tenant string, since time.Time) ([]*core.AnalysisResult, error) {
	query := `
		SELECT id, tenant, pass, commit_sha, findings, metrics, confidence, severity, errors, created_at
		FROM analysis_results
		WHERE tenant = $1 AND created_at >= $2
		ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, tenant, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.AnalysisResult
	for rows.Next() {
		r, err := s.scanAnalysisResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *postgresStore) scanAnalysisResult(row rowScanner) (*core.AnalysisResult, error) {
	var r core.AnalysisResult
	var findings, metrics, errs []byte
	err := row.Scan(&r.ID, &r.Tenant, &r.Pass, &r.CommitSHA, &findings, &metrics, &r.Confidence, &r.Severity, &errs, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fromJSON(findings, &r.Findings); err != nil {
		return nil, err
	}
	if err := fromJSON(metrics, &r.Metrics); err != nil {
		return nil, err
	}
	if err := fromJSON(errs, &r.Errors); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveSuggestion inserts a new suggestion.
func (s *postgresStore) SaveSuggestion(ctx context.Context, sg *core.Suggestion) error {
	files, err := toJSON(sg.Files)
	if err != nil {
		return err
	}
	impact, err := toJSON(sg.EstimatedImpact)
	if err != nil {
		return err
	}
	impl, err := toJSON(sg.Implementation)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO suggestions
			(id, tenant, analysis_id, type, priority, title, description, files,
			 estimated_impact, automation_level, implementation, confidence, reasoning, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = s.db.ExecContext(ctx, query,
		sg.ID, sg.Tenant, sg.AnalysisID, sg.Type, sg.Priority, sg.Title, sg.Description, files,
		impact, sg.AutomationLevel, impl, sg.Confidence, sg.Reasoning, sg.Status, sg.CreatedAt, sg.UpdatedAt)
	return err
}

// GetSuggestion loads one suggestion by id.
func (s *postgresStore) GetSuggestion(ctx context.Context, id string) (*core.Suggestion, error) {
	query := suggestionSelect + ` WHERE id = $1`
	return s.scanSuggestion(s.db.QueryRowContext(ctx, query, id))
}

// UpdateSuggestionStatus sets the status of an existing suggestion.
func (s *postgresStore) UpdateSuggestionStatus(ctx context.Context, id string, status core.SuggestionStatus) error {
	query := `UPDATE suggestions SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, status, id)
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

// ListPendingSuggestions returns pending suggestions ordered by priority, then
// confidence, then recency. The ordering is part of the API contract.
func (s *postgresStore) ListPendingSuggestions(ctx context.Context, tenant string, limit int) ([]*core.Suggestion, error) {
	query := suggestionSelect + `
		WHERE tenant = $1 AND status = 'pending'
		ORDER BY
			CASE priority
				WHEN 'critical' THEN 4
				WHEN 'high' THEN 3
				WHEN 'medium' THEN 2
				ELSE 1
			END DESC,
			confidence DESC,
			created_at DESC
		LIMIT $2`
	return s.querySuggestions(ctx, query, tenant, limit)
}

// ListSuggestionsCreatedBetween returns suggestions created in [from, to).
func (s *postgresStore) ListSuggestionsCreatedBetween(ctx context.Context, tenant string, from, to time.Time) ([]*core.Suggestion, error) {
	query := suggestionSelect + `
		WHERE tenant = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC`
	return s.querySuggestions(ctx, query, tenant, from, to)
}

const suggestionSelect = `
	SELECT id, tenant, analysis_id, type, priority, title, description, files,
	       estimated_impact, automation_level, implementation, confidence, reasoning, status, created_at, updated_at
	FROM suggestions`

func (s *postgresStore) querySuggestions(ctx context.Context, query string, args ...any) ([]*core.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []*core.Suggestion
	for rows.Next() {
		sg, err := s.scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, rows.Err()
}

func (s *postgresStore) scanSuggestion(row rowScanner) (*core.Suggestion, error) {
	var sg core.Suggestion
	var files, impact, impl []byte
	err := row.Scan(&sg.ID, &sg.Tenant, &sg.AnalysisID, &sg.Type, &sg.Priority, &sg.Title, &sg.Description, &files,
		&impact, &sg.AutomationLevel, &impl, &sg.Confidence, &sg.Reasoning, &sg.Status, &sg.CreatedAt, &sg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fromJSON(files, &sg.Files); err != nil {
		return nil, err
	}
	if err := fromJSON(impact, &sg.EstimatedImpact); err != nil {
		return nil, err
	}
	if err := fromJSON(impl, &sg.Implementation); err != nil {
		return nil, err
	}
	return &sg, nil
}

// SaveFeedback appends a feedback record.
func (s *postgresStore) SaveFeedback(ctx context.Context, fb *core.RefactorFeedback) error {
	metadata, err := toJSON(fb.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO refactor_feedback (id, suggestion_id, user_id, action, rating, comments, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.db.ExecContext(ctx, query,
		fb.ID, fb.SuggestionID, fb.UserID, fb.Action, fb.Rating, fb.Comments, metadata, fb.CreatedAt)
	return err
}

// ListFeedbackBetween returns feedback in [from, to) for the tenant's
// suggestions.
func (s *postgresStore) ListFeedbackBetween(ctx context.Context, tenant string, from, to time.Time) ([]*core.RefactorFeedback, error) {
	query := `
		SELECT f.id, f.suggestion_id, f.user_id, f.action, f.rating, f.comments, f.metadata, f.created_at
		FROM refactor_feedback f
		JOIN suggestions s ON s.id = f.suggestion_id
		WHERE s.tenant = $1 AND f.created_at >= $2 AND f.created_at < $3
		ORDER BY f.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, tenant, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []*core.RefactorFeedback
	for rows.Next() {
		var fb core.RefactorFeedback
		var metadata []byte
		if err := rows.Scan(&fb.ID, &fb.SuggestionID, &fb.UserID, &fb.Action, &fb.Rating, &fb.Comments, &metadata, &fb.CreatedAt); err != nil {
			return nil, err
		}
		if err := fromJSON(metadata, &fb.Metadata); err != nil {
			return nil, err
		}
		feedback = append(feedback, &fb)
	}
	return feedback, rows.Err()
}
