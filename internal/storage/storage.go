// Package storage holds the catalog, inquiry and user stores behind
// interfaces with an in-memory and a gorm backed implementation.
package storage

import (
	"context"

	"github.com/polestar/storefront/internal/domain"
)

// CatalogStore owns categories and products.
type CatalogStore interface {
	// ListCategories returns every category in creation order
	ListCategories(ctx context.Context) ([]domain.Category, error)

	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// CreateCategory assigns the next id; duplicate slugs yield domain.ErrConflict
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)

	// ListProducts returns the filtered page of products in creation order
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	// CountProducts counts matches of the filter, ignoring its offset and limit
	CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error)

	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// CreateProduct rejects unknown categories with domain.ErrInvalidReference
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)

	// UpdateProduct merges the patch into the product with the given id
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)

	// DeleteProduct reports whether a product was removed
	DeleteProduct(ctx context.Context, id int64) (bool, error)
}

// InquiryStore owns customer inquiries. Inquiries are never updated or deleted.
type InquiryStore interface {
	// CreateInquiry assigns the id and the creation time
	CreateInquiry(ctx context.Context, in domain.InquiryInput) (*domain.Inquiry, error)

	// ListInquiries returns inquiries most recent first
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
}

// UserStore owns back-office accounts.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
}

// Store combines every store; a backend implements all of them.
type Store interface {
	CatalogStore
	InquiryStore
	UserStore
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
