package postgre

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"board-automation/internal/automation"
	repo "board-automation/internal/automation/repository"
)

var logColumns = []string{
	"id", "rule_id", "board_id", "status", "test_run",
	"trigger_data", "actions", "error", "started_at", "finished_at",
}

// statusRunning marks a log row between CreateLog and FinalizeLog.
// It never appears in finalized rows.
const statusRunning = "running"

func scanLog(row pgx.Row) (automation.Log, error) {
	var (
		entry   automation.Log
		actions []byte
	)
	err := row.Scan(
		&entry.ID, &entry.RuleID, &entry.BoardID, &entry.Status, &entry.TestRun,
		&entry.TriggerData, &actions, &entry.Error, &entry.StartedAt, &entry.FinishedAt,
	)
	if err != nil {
		return automation.Log{}, err
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &entry.Actions); err != nil {
			return automation.Log{}, err
		}
	}
	return entry, nil
}

// CreateLog opens a new execution record for a matched rule.
func (r *implRepository) CreateLog(ctx context.Context, opt repo.CreateLogOptions) (automation.Log, error) {
	query, args, err := psql.
		Insert("automation_logs").
		Columns("id", "rule_id", "board_id", "status", "test_run", "trigger_data", "started_at").
		Values(uuid.NewString(), opt.RuleID, opt.BoardID, statusRunning, opt.TestRun, opt.TriggerData, opt.StartedAt).
		Suffix("RETURNING " + columnList(logColumns)).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("CreateLog"), err)
		return automation.Log{}, repo.ErrFailedToInsert
	}

	entry, err := scanLog(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateLog"), err)
		return automation.Log{}, repo.ErrFailedToInsert
	}
	return entry, nil
}

// FinalizeLog closes an execution record exactly once. The status guard
// keeps finalized rows immutable even under a double Finish.
func (r *implRepository) FinalizeLog(ctx context.Context, opt repo.FinalizeLogOptions) error {
	actions, err := json.Marshal(opt.Actions)
	if err != nil {
		r.l.Errorf(ctx, "%s marshal actions: %v", r.dsn("FinalizeLog"), err)
		return repo.ErrFailedToUpdate
	}

	query, args, err := psql.
		Update("automation_logs").
		Set("status", opt.Status).
		Set("actions", actions).
		Set("error", opt.Error).
		Set("finished_at", opt.FinishedAt).
		Where(sq.Eq{"id": opt.ID, "status": statusRunning}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("FinalizeLog"), err)
		return repo.ErrFailedToUpdate
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("FinalizeLog"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// ListLogs serves the external log query surface, newest first.
// Test runs are excluded unless explicitly requested.
func (r *implRepository) ListLogs(ctx context.Context, opt repo.ListLogsOptions) ([]automation.Log, int, error) {
	where := sq.And{sq.Eq{"rule_id": opt.RuleID}}
	if opt.Status != "" {
		where = append(where, sq.Eq{"status": opt.Status})
	}
	if !opt.IncludeTestRuns {
		where = append(where, sq.Eq{"test_run": false})
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("automation_logs").
		Where(where).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build count query: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}

	builder := psql.
		Select(logColumns...).
		From("automation_logs").
		Where(where).
		OrderBy("started_at DESC", "id DESC")
	if opt.Limit > 0 {
		builder = builder.Limit(uint64(opt.Limit)).Offset(uint64(opt.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var logs []automation.Log
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListLogs"), err)
			return nil, 0, repo.ErrFailedToList
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListLogs"), err)
		return nil, 0, repo.ErrFailedToList
	}
	return logs, total, nil
}
