package postgre

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"board-automation/internal/automation/repository"
	"board-automation/pkg/log"
)

// psql is the shared statement builder configured for PostgreSQL
// dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type implRepository struct {
	pool *pgxpool.Pool
	l    log.Logger
}

// New creates a PostgreSQL-backed Repository for the automation domain.
func New(pool *pgxpool.Pool, l log.Logger) repository.Repository {
	if pool == nil {
		panic("automation/repository/postgre: pool is required")
	}
	return &implRepository{pool: pool, l: l}
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("automation/repository/postgre.%s", method)
}

// columnList joins column names for RETURNING clauses.
func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
