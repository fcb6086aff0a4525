package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sevigo/evo-warden/internal/core"
)

// CreateExecution inserts a new execution record.
func (s *postgresStore) CreateExecution(ctx context.Context, e *core.RefactorExecution) error {
	changes, err := toJSON(e.Changes)
	if err != nil {
		return err
	}
	testResults, err := toJSON(e.TestResults)
	if err != nil {
		return err
	}
	metadata, err := toJSON(e.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO refactor_executions
			(id, tenant, suggestion_id, status, started_at, completed_at, executed_by,
			 changes, rollback_plan, test_results, backup_path, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.Tenant, e.SuggestionID, e.Status, e.StartedAt, e.CompletedAt, e.ExecutedBy,
		changes, e.RollbackPlan, testResults, e.BackupPath, metadata)
	return err
}

// UpdateExecution replaces the mutable fields of an execution.
func (s *postgresStore) UpdateExecution(ctx context.Context, e *core.RefactorExecution) error {
	testResults, err := toJSON(e.TestResults)
	if err != nil {
		return err
	}
	metadata, err := toJSON(e.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE refactor_executions
		SET status = $1, completed_at = $2, test_results = $3, backup_path = $4, metadata = $5
		WHERE id = $6`
	res, err := s.db.ExecContext(ctx, query,
		e.Status, e.CompletedAt, testResults, e.BackupPath, metadata, e.ID)
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

// GetExecution loads one execution by id.
func (s *postgresStore) GetExecution(ctx context.Context, id string) (*core.RefactorExecution, error) {
	query := executionSelect + ` WHERE id = $1`
	return s.scanExecution(s.db.QueryRowContext(ctx, query, id))
}

// ListExecutionsByStatus returns the tenant's executions in one status, oldest
// first so forced transitions process in start order.
func (s *postgresStore) ListExecutionsByStatus(ctx context.Context, tenant string, status core.ExecutionStatus) ([]*core.RefactorExecution, error) {
	query := executionSelect + `
		WHERE tenant = $1 AND status = $2
		ORDER BY started_at ASC`
	return s.queryExecutions(ctx, query, tenant, status)
}

// ListExecutionsBetween returns executions started in [from, to).
func (s *postgresStore) ListExecutionsBetween(ctx context.Context, tenant string, from, to time.Time) ([]*core.RefactorExecution, error) {
	query := executionSelect + `
		WHERE tenant = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at DESC`
	return s.queryExecutions(ctx, query, tenant, from, to)
}

// CountExecutionsSince counts executions started at or after the given time.
// The daily change cap is enforced against this number.
func (s *postgresStore) CountExecutionsSince(ctx context.Context, tenant string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM refactor_executions WHERE tenant = $1 AND started_at >= $2`
	if err := s.db.QueryRowContext(ctx, query, tenant, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

const executionSelect = `
	SELECT id, tenant, suggestion_id, status, started_at, completed_at, executed_by,
	       changes, rollback_plan, test_results, backup_path, metadata
	FROM refactor_executions`

func (s *postgresStore) queryExecutions(ctx context.Context, query string, args ...any) ([]*core.RefactorExecution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []*core.RefactorExecution
	for rows.Next() {
		e, err := s.scanExecution(rows)
		if err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}
	return executions, rows.Err()
}

func (s *postgresStore) scanExecution(row rowScanner) (*core.RefactorExecution, error) {
	var e core.RefactorExecution
	var changes, testResults, metadata []byte
	err := row.Scan(&e.ID, &e.Tenant, &e.SuggestionID, &e.Status, &e.StartedAt, &e.CompletedAt, &e.ExecutedBy,
		&changes, &e.RollbackPlan, &testResults, &e.BackupPath, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fromJSON(changes, &e.Changes); err != nil {
		return nil, err
	}
	if err := fromJSON(testResults, &e.TestResults); err != nil {
		return nil, err
	}
	if err := fromJSON(metadata, &e.Metadata); err != nil {
		return nil, err
	}
	return &e, nil
}
