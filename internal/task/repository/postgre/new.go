package postgre

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"board-automation/internal/task/repository"
	"board-automation/pkg/log"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type implRepository struct {
	pool *pgxpool.Pool
	l    log.Logger
}

// New creates a PostgreSQL-backed Repository for the task domain.
func New(pool *pgxpool.Pool, l log.Logger) repository.Repository {
	if pool == nil {
		panic("task/repository/postgre: pool is required")
	}
	return &implRepository{pool: pool, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("task/repository/postgre.%s", method)
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
