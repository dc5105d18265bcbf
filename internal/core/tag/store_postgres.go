package tag

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taxonomy/internal/platform/database/schema"
	"github.com/taibuivan/taxonomy/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func columnList() string {
	return strings.Join(schema.Tags.Columns(), ", ")
}

// sortColumn maps the caller-supplied sort key onto a known column name,
// falling back to usage_count for anything unrecognized.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return schema.Tags.Name
	case "created_at", "createdAt":
		return schema.Tags.CreatedAt
	case "usage_count", "usageCount":
		return schema.Tags.UsageCount
	default:
		return schema.Tags.UsageCount
	}
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*Tag, int, error) {
	var conditions []string
	var args []any

	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.Tags.IsActive, len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		placeholder := strconv.Itoa(len(args))
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%s OR %s ILIKE $%s)",
			schema.Tags.Name, placeholder, schema.Tags.Description, placeholder))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT count(*) FROM %s%s", schema.Tags.Table, where)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tags")
	}

	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		columnList(), schema.Tags.Table, where,
		sortColumn(f.SortBy), direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := scanTag(rows.Scan, t); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, total, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Tag, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		columnList(), schema.Tags.Table, schema.Tags.ID)

	t := &Tag{}
	err := scanTag(func(dest ...any) error {
		return repository.db.QueryRow(ctx, query, id).Scan(dest...)
	}, t)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag")
	}
	return t, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, t *Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.Tags.Table,
		schema.Tags.ID, schema.Tags.Name, schema.Tags.Slug, schema.Tags.Description,
		schema.Tags.Color, schema.Tags.UsageCount, schema.Tags.IsActive,
		schema.Tags.CreatedAt, schema.Tags.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.Color, t.UsageCount, t.IsActive,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return dberr.Wrap(err, "create_tag")
}

func (repository *PostgresRepository) Update(ctx context.Context, t *Tag) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Tags.Table,
		schema.Tags.Name, schema.Tags.Slug, schema.Tags.Description,
		schema.Tags.Color, schema.Tags.IsActive, schema.Tags.UpdatedAt,
		schema.Tags.ID, schema.Tags.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.Color, t.IsActive,
	).Scan(&t.UpdatedAt)
	return dberr.Wrap(err, "update_tag")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.Tags.Table, schema.Tags.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Popular(ctx context.Context, limit int) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = true
		ORDER BY %s DESC, %s ASC
		LIMIT $1
	`,
		columnList(), schema.Tags.Table, schema.Tags.IsActive,
		schema.Tags.UsageCount, schema.Tags.Name,
	)

	rows, err := repository.db.Query(ctx, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "popular_tags")
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := scanTag(rows.Scan, t); err != nil {
			return nil, dberr.Wrap(err, "scan_popular_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

func (repository *PostgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var (
		query string
		args  []any
	)

	if excludeID == "" {
		query = fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)",
			schema.Tags.Table, schema.Tags.Slug)
		args = []any{slug}
	} else {
		query = fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)",
			schema.Tags.Table, schema.Tags.Slug, schema.Tags.ID)
		args = []any{slug, excludeID}
	}

	var exists bool
	if err := repository.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "tag_slug_exists")
	}
	return exists, nil
}

// scanTag maps one row onto t using the shared column order.
func scanTag(scan func(dest ...any) error, t *Tag) error {
	return scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color,
		&t.UsageCount, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
}
