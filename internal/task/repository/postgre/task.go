package postgre

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"board-automation/internal/model"
	"board-automation/internal/task"
	repo "board-automation/internal/task/repository"
)

var taskColumns = []string{
	"id", "board_id", "list_id", "title", "description", "assignee_id",
	"due_date", "completed", "version", "created_at", "updated_at",
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.BoardID, &t.ListID, &t.Title, &t.Description, &t.AssigneeID,
		&t.DueDate, &t.Completed, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// GetTask loads one task with labels and checklist attached. Zero-value
// result when the row is absent.
func (r *implRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("GetTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}

	t, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}

	if t.Labels, err = r.taskLabels(ctx, t.ID); err != nil {
		return model.Task{}, err
	}
	if t.Checklist, err = r.taskChecklist(ctx, t.ID); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// UpdateTask applies a guarded partial update. The version predicate
// makes lost updates impossible: a concurrent writer bumps the version
// first and this statement matches nothing.
func (r *implRepository) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	builder := psql.
		Update("tasks").
		Set("version", opt.Version+1).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": opt.ID, "version": opt.Version}).
		Suffix("RETURNING " + columnList(taskColumns))

	if opt.ListID != nil {
		builder = builder.Set("list_id", *opt.ListID)
	}
	if opt.AssigneeID != nil {
		builder = builder.Set("assignee_id", *opt.AssigneeID)
	}
	if opt.DueDate != nil {
		// A fresh deadline re-arms both scanner edges.
		builder = builder.
			Set("due_date", *opt.DueDate).
			Set("due_soon_notified", false).
			Set("overdue_notified", false)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}

	t, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}

	if t.Labels, err = r.taskLabels(ctx, t.ID); err != nil {
		return model.Task{}, err
	}
	if t.Checklist, err = r.taskChecklist(ctx, t.ID); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// ListDueTasks selects open tasks crossing one due-date edge that have
// not been flagged for it yet.
func (r *implRepository) ListDueTasks(ctx context.Context, opt task.ListDueTasksInput) ([]model.Task, error) {
	where := sq.And{
		sq.Eq{"completed": false},
		sq.NotEq{"due_date": nil},
	}
	switch opt.Edge {
	case task.DueEdgeApproaching:
		where = append(where,
			sq.Eq{"due_soon_notified": false},
			sq.GtOrEq{"due_date": opt.Now},
			sq.Lt{"due_date": opt.Now.Add(opt.Window)},
		)
	case task.DueEdgePassed:
		where = append(where,
			sq.Eq{"overdue_notified": false},
			sq.Lt{"due_date": opt.Now},
		)
	default:
		return nil, repo.ErrFailedToList
	}

	builder := psql.
		Select(taskColumns...).
		From("tasks").
		Where(where).
		OrderBy("due_date ASC", "id ASC")
	if opt.Limit > 0 {
		builder = builder.Limit(uint64(opt.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("ListDueTasks"), err)
		return nil, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListDueTasks"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListDueTasks"), err)
			return nil, repo.ErrFailedToList
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListDueTasks"), err)
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

// MarkDueNotified flags one edge as fired for a task.
func (r *implRepository) MarkDueNotified(ctx context.Context, taskID string, edge task.DueEdge) error {
	column := "due_soon_notified"
	if edge == task.DueEdgePassed {
		column = "overdue_notified"
	}
	query, args, err := psql.
		Update("tasks").
		Set(column, true).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("MarkDueNotified"), err)
		return repo.ErrFailedToUpdate
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkDueNotified"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

func (r *implRepository) taskLabels(ctx context.Context, taskID string) ([]model.Label, error) {
	query, args, err := psql.
		Select("l.id", "l.board_id", "l.name", "l.color").
		From("labels l").
		Join("task_labels tl ON tl.label_id = l.id").
		Where(sq.Eq{"tl.task_id": taskID}).
		OrderBy("l.name ASC").
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("taskLabels"), err)
		return nil, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("taskLabels"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var labels []model.Label
	for rows.Next() {
		var label model.Label
		if err := rows.Scan(&label.ID, &label.BoardID, &label.Name, &label.Color); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("taskLabels"), err)
			return nil, repo.ErrFailedToList
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *implRepository) taskChecklist(ctx context.Context, taskID string) ([]model.ChecklistItem, error) {
	query, args, err := psql.
		Select("id", "task_id", "content", "done", "position").
		From("checklist_items").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("taskChecklist"), err)
		return nil, repo.ErrFailedToList
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("taskChecklist"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		var item model.ChecklistItem
		if err := rows.Scan(&item.ID, &item.TaskID, &item.Content, &item.Done, &item.Position); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("taskChecklist"), err)
			return nil, repo.ErrFailedToList
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
