package postgre

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"board-automation/internal/model"
	repo "board-automation/internal/task/repository"
)

// InsertComment appends one comment row.
func (r *implRepository) InsertComment(ctx context.Context, opt repo.InsertCommentOptions) (model.Comment, error) {
	comment := model.Comment{
		ID:        uuid.NewString(),
		TaskID:    opt.TaskID,
		AuthorID:  opt.AuthorID,
		Text:      opt.Text,
		System:    opt.System,
		CreatedAt: time.Now().UTC(),
	}
	query, args, err := psql.
		Insert("comments").
		Columns("id", "task_id", "author_id", "text", "system", "created_at").
		Values(comment.ID, comment.TaskID, comment.AuthorID, comment.Text, comment.System, comment.CreatedAt).
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("InsertComment"), err)
		return model.Comment{}, repo.ErrFailedToInsert
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("InsertComment"), err)
		return model.Comment{}, repo.ErrFailedToInsert
	}
	return comment, nil
}

// InsertChecklistItem appends one checklist item at the next position.
func (r *implRepository) InsertChecklistItem(ctx context.Context, opt repo.InsertChecklistItemOptions) (model.ChecklistItem, error) {
	item := model.ChecklistItem{
		ID:      uuid.NewString(),
		TaskID:  opt.TaskID,
		Content: opt.Content,
	}
	query, args, err := psql.
		Insert("checklist_items").
		Columns("id", "task_id", "content", "done", "position").
		Values(item.ID, item.TaskID, item.Content, false,
			sq.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM checklist_items WHERE task_id = ?)", opt.TaskID)).
		Suffix("RETURNING position").
		ToSql()
	if err != nil {
		r.l.Errorf(ctx, "%s build query: %v", r.dsn("InsertChecklistItem"), err)
		return model.ChecklistItem{}, repo.ErrFailedToInsert
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&item.Position); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("InsertChecklistItem"), err)
		return model.ChecklistItem{}, repo.ErrFailedToInsert
	}
	return item, nil
}
