package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/polestar/storefront/internal/domain"
)

func ptr[T any](v T) *T { return &v }

const unsplash = "https://images.unsplash.com/"
const imageParams = "?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80"

func image(id string) string {
	return unsplash + id + imageParams
}

var defaultCategories = []domain.CategoryInput{
	{Name: "Office Chairs", Slug: "chairs", Description: ptr("Ergonomic designs for all-day comfort"), ImageURL: ptr(image("photo-1541558869434-2031818e7af2"))},
	{Name: "Desks & Tables", Slug: "desks", Description: ptr("Functional workspaces for productivity"), ImageURL: ptr(image("photo-1519974719765-e6559eac2575"))},
	{Name: "Conference Solutions", Slug: "conference", Description: ptr("Professional setups for effective meetings"), ImageURL: ptr(image("photo-1534462070332-61b22ee125c3"))},
	{Name: "Storage Solutions", Slug: "storage", Description: ptr("Organized storage for efficient workspaces"), ImageURL: ptr(image("photo-1581107316720-6fa0b8fc22ae"))},
	{Name: "Workstations", Slug: "workstations", Description: ptr("Complete desk setups for maximum productivity"), ImageURL: ptr(image("photo-1564540586988-aa4e53c3d799"))},
}

// defaultProducts reference categories by slug; ids are resolved at seed time
var defaultProducts = []struct {
	category string
	input    domain.ProductInput
}{
	{"chairs", domain.ProductInput{
		Name:            "Premium Ergonomic Chair",
		Slug:            "premium-ergonomic-chair",
		Description:     ptr("Advanced lumbar support with premium materials for all-day comfort. Fully adjustable with breathable mesh back."),
		Price:           24999,
		DiscountedPrice: ptr(int64(22999)),
		ImageURL:        image("photo-1559061509-b1f7a3ee93cb"),
		Gallery:         []string{image("photo-1559061509-b1f7a3ee93cb"), image("photo-1571538288252-e2f09adff7d0")},
		Featured:        true,
		InStock:         true,
		Rating:          ptr(4.5),
		Badges:          []string{"Best Seller"},
	}},
	{"desks", domain.ProductInput{
		Name:        "Executive Desk",
		Slug:        "executive-desk",
		Description: ptr("Spacious work surface with built-in storage solutions. High-quality wood construction with metal accents."),
		Price:       42500,
		ImageURL:    image("photo-1505843513577-22bb7d21e455"),
		Gallery:     []string{image("photo-1505843513577-22bb7d21e455"), image("photo-1587212805776-992ad9f791a2")},
		Featured:    true,
		InStock:     true,
		Rating:      ptr(4.0),
	}},
	{"conference", domain.ProductInput{
		Name:        "Conference Table",
		Slug:        "conference-table",
		Description: ptr("Elegant design with integrated power solutions. Perfect for meeting rooms and collaborative spaces."),
		Price:       78999,
		ImageURL:    image("photo-1572025442646-866d16c84a54"),
		Gallery:     []string{image("photo-1572025442646-866d16c84a54"), image("photo-1524758631624-e2822e304c36")},
		Featured:    true,
		InStock:     true,
		Rating:      ptr(5.0),
		Badges:      []string{"New Arrival"},
	}},
	{"storage", domain.ProductInput{
		Name:        "Storage Cabinet",
		Slug:        "storage-cabinet",
		Description: ptr("Versatile storage solution with adjustable shelves. Keep your office organized and clutter-free."),
		Price:       32750,
		ImageURL:    image("photo-1595428774223-ef52624120d2"),
		Gallery:     []string{image("photo-1595428774223-ef52624120d2"), image("photo-1594125674956-61a9b49c8ecc")},
		Featured:    true,
		InStock:     true,
		Rating:      ptr(4.5),
	}},
	{"workstations", domain.ProductInput{
		Name:        "Modern Workstation Setup",
		Slug:        "modern-workstation-setup",
		Description: ptr("Complete office setup with desk, chair, and storage. Designed for maximum productivity and comfort."),
		Price:       89999,
		ImageURL:    image("photo-1564540586988-aa4e53c3d799"),
		Gallery:     []string{image("photo-1564540586988-aa4e53c3d799"), image("photo-1541558869434-2031818e7af2")},
		Featured:    true,
		InStock:     true,
		Rating:      ptr(4.8),
		Badges:      []string{"Best Value"},
	}},
	{"chairs", domain.ProductInput{
		Name:            "Mid-Back Mesh Chair",
		Slug:            "mid-back-mesh-chair",
		Description:     ptr("Comfortable mesh chair with excellent back support and breathability."),
		Price:           14999,
		DiscountedPrice: ptr(int64(12999)),
		ImageURL:        image("photo-1567538096621-38d2284b23ff"),
		Gallery:         []string{image("photo-1567538096621-38d2284b23ff")},
		InStock:         true,
		Rating:          ptr(4.3),
		Badges:          []string{"Sale"},
	}},
}

// Seed fills an empty catalog with the default categories and sample
// products. A catalog that already has categories is left untouched.
func Seed(ctx context.Context, store CatalogStore) error {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	bySlug := make(map[string]int64, len(defaultCategories))
	for _, in := range defaultCategories {
		c, err := store.CreateCategory(ctx, in)
		if err != nil {
			return err
		}
		bySlug[c.Slug] = c.ID
	}
	for _, item := range defaultProducts {
		in := item.input
		in.CategoryID = bySlug[item.category]
		if _, err := store.CreateProduct(ctx, in); err != nil {
			return err
		}
	}
	zap.L().Info("seeded default catalog",
		zap.Int("categories", len(defaultCategories)),
		zap.Int("products", len(defaultProducts)))
	return nil
}
