package postgre

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"board-automation/internal/model"
	repo "board-automation/internal/task/repository"
)

// GetLabel returns the zero-value Label (ID == "") when not found.
func (r *implRepository) GetLabel(ctx context.Context, id string) (model.Label, error) {
	query, args, err := psql.
		Select("id", "board_id", "name", "color").
		From("labels").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("GetLabel"), err)
		return model.Label{}, repo.ErrFailedToGet
	}

	var label model.Label
	err = r.pool.QueryRow(ctx, query, args...).Scan(&label.ID, &label.BoardID, &label.Name, &label.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Label{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetLabel"), err)
		return model.Label{}, repo.ErrFailedToGet
	}
	return label, nil
}

// AttachLabel links a label to a task. Re-attaching is a no-op.
func (r *implRepository) AttachLabel(ctx context.Context, taskID, labelID string) error {
	query, args, err := psql.
		Insert("task_labels").
		Columns("task_id", "label_id").
		Values(taskID, labelID).
		Suffix("ON CONFLICT (task_id, label_id) DO NOTHING").
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("AttachLabel"), err)
		return repo.ErrFailedToInsert
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AttachLabel"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

// DetachLabel unlinks a label from a task. Detaching an absent link is
// a no-op.
func (r *implRepository) DetachLabel(ctx context.Context, taskID, labelID string) error {
	query, args, err := psql.
		Delete("task_labels").
		Where(sq.Eq{"task_id": taskID, "label_id": labelID}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("DetachLabel"), err)
		return repo.ErrFailedToDelete
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DetachLabel"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}
