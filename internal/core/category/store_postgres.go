package category

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

// columnList is the SELECT column set shared by every read query.
func columnList() string {
	return strings.Join(schema.Categories.Columns(), ", ")
}

// sortColumn maps the caller-supplied sort key onto a known column name.
// Unknown keys silently fall back to sort_order — user input is never
// interpolated into SQL.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return schema.Categories.Name
	case "created_at", "createdAt":
		return schema.Categories.CreatedAt
	case "sort_order", "sortOrder":
		return schema.Categories.SortOrder
	default:
		return schema.Categories.SortOrder
	}
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*Category, int, error) {
	var conditions []string
	var args []any

	if f.RootOnly {
		conditions = append(conditions, schema.Categories.ParentID+" IS NULL")
	} else if f.ParentID != nil {
		args = append(args, *f.ParentID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.Categories.ParentID, len(args)))
	}

	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.Categories.IsActive, len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		placeholder := strconv.Itoa(len(args))
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%s OR %s ILIKE $%s)",
			schema.Categories.Name, placeholder, schema.Categories.Description, placeholder))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Total is computed against the same filter, independently of the page.
	countQuery := fmt.Sprintf("SELECT count(*) FROM %s%s", schema.Categories.Table, where)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		columnList(), schema.Categories.Table, where,
		sortColumn(f.SortBy), direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := scanCategory(rows.Scan, c); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, total, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Category, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		columnList(), schema.Categories.Table, schema.Categories.ID)

	c := &Category{}
	err := scanCategory(func(dest ...any) error {
		return repository.db.QueryRow(ctx, query, id).Scan(dest...)
	}, c)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return c, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s
	`,
		schema.Categories.Table,
		schema.Categories.ID, schema.Categories.Name, schema.Categories.Slug,
		schema.Categories.Description, schema.Categories.ParentID, schema.Categories.Color,
		schema.Categories.Icon, schema.Categories.SortOrder, schema.Categories.IsActive,
		schema.Categories.CreatedAt, schema.Categories.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.Color, c.Icon, c.SortOrder, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) Update(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Categories.Table,
		schema.Categories.Name, schema.Categories.Slug, schema.Categories.Description,
		schema.Categories.Color, schema.Categories.Icon, schema.Categories.SortOrder,
		schema.Categories.IsActive, schema.Categories.UpdatedAt,
		schema.Categories.ID, schema.Categories.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.Icon, c.SortOrder, c.IsActive,
	).Scan(&c.UpdatedAt)
	return dberr.Wrap(err, "update_category")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.Categories.Table, schema.Categories.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) HasChildren(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)",
		schema.Categories.Table, schema.Categories.ParentID)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "has_children")
	}
	return exists, nil
}

func (repository *PostgresRepository) ChildrenOf(ctx context.Context, parentIDs []string) ([]*Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC, %s ASC",
		columnList(), schema.Categories.Table, schema.Categories.ParentID,
		schema.Categories.SortOrder, schema.Categories.Name)

	rows, err := repository.db.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "children_of")
	}
	defer rows.Close()

	var children []*Category
	for rows.Next() {
		c := &Category{}
		if err := scanCategory(rows.Scan, c); err != nil {
			return nil, dberr.Wrap(err, "scan_child_category")
		}
		children = append(children, c)
	}

	return children, nil
}

func (repository *PostgresRepository) SetParent(ctx context.Context, id string, parentID *string) (*Category, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Categories.Table, schema.Categories.ParentID, schema.Categories.UpdatedAt,
		schema.Categories.ID, columnList(),
	)

	c := &Category{}
	err := scanCategory(func(dest ...any) error {
		return repository.db.QueryRow(ctx, query, id, parentID).Scan(dest...)
	}, c)
	if err != nil {
		return nil, dberr.Wrap(err, "set_parent")
	}
	return c, nil
}

func (repository *PostgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var (
		query string
		args  []any
	)

	if excludeID == "" {
		query = fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)",
			schema.Categories.Table, schema.Categories.Slug)
		args = []any{slug}
	} else {
		query = fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)",
			schema.Categories.Table, schema.Categories.Slug, schema.Categories.ID)
		args = []any{slug, excludeID}
	}

	var exists bool
	if err := repository.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "category_slug_exists")
	}
	return exists, nil
}

// scanCategory maps one row onto c using the shared column order.
func scanCategory(scan func(dest ...any) error, c *Category) error {
	return scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Color,
		&c.Icon, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
}
