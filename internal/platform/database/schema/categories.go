package schema

// CategoriesTable represents the 'categories' table
type CategoriesTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	ParentID    string
	Color       string
	Icon        string
	SortOrder   string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string
}

// Categories is the schema definition for the categories table
var Categories = CategoriesTable{
	Table:       "categories",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	ParentID:    "parent_id",
	Color:       "color",
	Icon:        "icon",
	SortOrder:   "sort_order",
	IsActive:    "is_active",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t CategoriesTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.ParentID, t.Color,
		t.Icon, t.SortOrder, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
