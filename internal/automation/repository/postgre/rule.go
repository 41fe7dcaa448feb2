package postgre

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"board-automation/internal/automation"
	repo "board-automation/internal/automation/repository"
)

var ruleColumns = []string{
	"id", "board_id", "name", "trigger", "conditions", "actions",
	"active", "created_by", "created_at", "updated_at",
}

func scanRule(row pgx.Row) (automation.Rule, error) {
	var (
		rule       automation.Rule
		conditions []byte
		actions    []byte
	)
	err := row.Scan(
		&rule.ID, &rule.BoardID, &rule.Name, &rule.Trigger,
		&conditions, &actions,
		&rule.Active, &rule.CreatedBy, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return automation.Rule{}, err
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
			return automation.Rule{}, err
		}
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &rule.Actions); err != nil {
			return automation.Rule{}, err
		}
	}
	return rule, nil
}

// CreateRule inserts a new rule row and returns the created entity.
func (r *implRepository) CreateRule(ctx context.Context, opt repo.CreateRuleOptions) (automation.Rule, error) {
	conditions, err := json.Marshal(opt.Conditions)
	if err != nil {
		r.l.Errorf(ctx, "%s marshal conditions: %v", r.dsn("CreateRule"), err)
		return automation.Rule{}, repo.ErrFailedToInsert
	}
	actions, err := json.Marshal(opt.Actions)
	if err != nil {
		r.l.Errorf(ctx, "%s marshal actions: %v", r.dsn("CreateRule"), err)
		return automation.Rule{}, repo.ErrFailedToInsert
	}

	now := time.Now().UTC()
	query, args, err := psql.
		Insert("automation_rules").
		Columns(ruleColumns...).
		Values(uuid.NewString(), opt.BoardID, opt.Name, opt.Trigger, conditions, actions,
			opt.Active, opt.CreatedBy, now, now).
		Suffix("RETURNING " + columnList(ruleColumns)).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("CreateRule"), err)
		return automation.Rule{}, repo.ErrFailedToInsert
	}

	rule, err := scanRule(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateRule"), err)
		return automation.Rule{}, repo.ErrFailedToInsert
	}
	return rule, nil
}

// GetRule retrieves a rule by ID. Returns the zero-value Rule (ID == "")
// when not found; not-found is not an error at this layer.
func (r *implRepository) GetRule(ctx context.Context, id string) (automation.Rule, error) {
	query, args, err := psql.
		Select(ruleColumns...).
		From("automation_rules").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("GetRule"), err)
		return automation.Rule{}, repo.ErrFailedToGet
	}

	rule, err := scanRule(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return automation.Rule{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetRule"), err)
		return automation.Rule{}, repo.ErrFailedToGet
	}
	return rule, nil
}

// ListRules returns a paginated list of a board's rules plus the total
// count, newest last (creation order).
func (r *implRepository) ListRules(ctx context.Context, opt repo.ListRulesOptions) ([]automation.Rule, int, error) {
	where := sq.And{sq.Eq{"board_id": opt.BoardID}}
	if opt.Trigger != "" {
		where = append(where, sq.Eq{"trigger": opt.Trigger})
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("automation_rules").
		Where(where).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build count query: %v", r.dsn("ListRules"), err)
		return nil, 0, repo.ErrFailedToList
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListRules"), err)
		return nil, 0, repo.ErrFailedToList
	}

	builder := psql.
		Select(ruleColumns...).
		From("automation_rules").
		Where(where).
		OrderBy("created_at ASC", "id ASC")
	if opt.Limit > 0 {
		builder = builder.Limit(uint64(opt.Limit)).Offset(uint64(opt.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("ListRules"), err)
		return nil, 0, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListRules"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var rules []automation.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListRules"), err)
			return nil, 0, repo.ErrFailedToList
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListRules"), err)
		return nil, 0, repo.ErrFailedToList
	}
	return rules, total, nil
}

// ActiveRulesForTrigger is the dispatch-path query: active rules of one
// board and trigger, in stable creation order.
func (r *implRepository) ActiveRulesForTrigger(ctx context.Context, boardID string, trigger automation.TriggerType) ([]automation.Rule, error) {
	query, args, err := psql.
		Select(ruleColumns...).
		From("automation_rules").
		Where(sq.Eq{"board_id": boardID, "trigger": trigger, "active": true}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("ActiveRulesForTrigger"), err)
		return nil, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ActiveRulesForTrigger"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var rules []automation.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ActiveRulesForTrigger"), err)
			return nil, repo.ErrFailedToList
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ActiveRulesForTrigger"), err)
		return nil, repo.ErrFailedToList
	}
	return rules, nil
}

// SetRuleActive flips the active flag and returns the updated rule.
func (r *implRepository) SetRuleActive(ctx context.Context, id string, active bool) (automation.Rule, error) {
	query, args, err := psql.
		Update("automation_rules").
		Set("active", active).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList(ruleColumns)).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("SetRuleActive"), err)
		return automation.Rule{}, repo.ErrFailedToUpdate
	}

	rule, err := scanRule(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return automation.Rule{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetRuleActive"), err)
		return automation.Rule{}, repo.ErrFailedToUpdate
	}
	return rule, nil
}

// DeleteRule removes a rule row. Deleting an absent rule is a no-op.
func (r *implRepository) DeleteRule(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("automation_rules").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("DeleteRule"), err)
		return repo.ErrFailedToDelete
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteRule"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}
