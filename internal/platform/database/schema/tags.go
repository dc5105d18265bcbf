package schema

// TagsTable represents the 'tags' table
type TagsTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Color       string
	UsageCount  string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string
}

// Tags is the schema definition for the tags table
var Tags = TagsTable{
	Table:       "tags",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Color:       "color",
	UsageCount:  "usage_count",
	IsActive:    "is_active",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t TagsTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.Color,
		t.UsageCount, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
