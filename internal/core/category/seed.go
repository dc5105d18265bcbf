package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/taxonomy/pkg/pointer"
)

// defaultCategories is the bootstrap taxonomy installed on a fresh database.
var defaultCategories = []CreateInput{
	{Name: "Technology", Description: pointer.To("Posts about technology and programming"), Color: pointer.To("#3B82F6")},
	{Name: "Lifestyle", Description: pointer.To("Posts about lifestyle and personal experiences"), Color: pointer.To("#10B981")},
	{Name: "Business", Description: pointer.To("Posts about business and entrepreneurship"), Color: pointer.To("#F59E0B")},
	{Name: "Health", Description: pointer.To("Posts about health and wellness"), Color: pointer.To("#EF4444")},
	{Name: "Travel", Description: pointer.To("Posts about travel and adventures"), Color: pointer.To("#8B5CF6")},
}

// SeedDefaults installs the default categories when the table is empty.
//
// This is a best-effort bootstrap step: callers treat a returned error as
// non-fatal and keep serving.
func (service *Service) SeedDefaults(ctx context.Context) error {
	// Count across all rows, active or not.
	_, total, err := service.repo.List(ctx, Filter{}, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for _, input := range defaultCategories {
		if _, err := service.Create(ctx, input); err != nil {
			return err
		}
	}

	service.logger.Info("default_categories_seeded", slog.Int("count", len(defaultCategories)))
	return nil
}
