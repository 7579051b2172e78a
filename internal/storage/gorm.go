package storage

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/polestar/storefront/internal/domain"
)

// GormStore is the database implementation of Store.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a store over an already migrated database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// translate maps gorm errors onto the domain sentinels and wraps the rest.
func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return errors.Wrap(err, msg)
	}
}

func (s *GormStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows := []domain.Category{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list categories")
	}
	return rows, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "get category")
	}
	return &c, nil
}

func (s *GormStore) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, translate(err, "get category by slug")
	}
	return &c, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).Where("slug = ?", in.Slug).Count(&count).Error; err != nil {
		return nil, translate(err, "check category slug")
	}
	if count > 0 {
		return nil, domain.ErrConflict
	}
	c := in.Category()
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate(err, "create category")
	}
	return &c, nil
}

// escapeLike quotes the LIKE wildcards so the term is matched literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

func (s *GormStore) productQuery(ctx context.Context, f domain.ProductFilter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&domain.Product{})
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.Featured {
		db = db.Where("featured = ?", true)
	}
	if term := f.SearchTerm(); term != "" {
		like := "%" + escapeLike(term) + "%"
		if strings.EqualFold(s.db.Dialector.Name(), "postgres") {
			db = db.Where(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, like, like)
		} else {
			db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
		}
	}
	return db
}

func (s *GormStore) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	db := s.productQuery(ctx, filter).Order("id ASC")
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
		if filter.Limit == 0 {
			// some dialects reject OFFSET without LIMIT
			db = db.Limit(math.MaxInt32)
		}
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	rows := []domain.Product{}
	if err := db.Find(&rows).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return rows, nil
}

func (s *GormStore) CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	var total int64
	if err := s.productQuery(ctx, filter.Unpaged()).Count(&total).Error; err != nil {
		return 0, translate(err, "count products")
	}
	return total, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (s *GormStore) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err, "get product by slug")
	}
	return &p, nil
}

func (s *GormStore) checkProduct(ctx context.Context, p domain.Product) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", p.CategoryID).Count(&count).Error; err != nil {
		return translate(err, "check product category")
	}
	if count == 0 {
		return domain.ErrInvalidReference
	}
	if err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("slug = ? AND id <> ?", p.Slug, p.ID).
		Count(&count).Error; err != nil {
		return translate(err, "check product slug")
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *GormStore) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := in.Product()
	if err := s.checkProduct(ctx, p); err != nil {
		return nil, err
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, translate(err, "create product")
	}
	return &p, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := patch.Apply(*existing)
	if err != nil {
		return nil, err
	}
	if err := s.checkProduct(ctx, p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, translate(err, "update product")
	}
	return &p, nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return false, translate(res.Error, "delete product")
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) CreateInquiry(ctx context.Context, in domain.InquiryInput) (*domain.Inquiry, error) {
	inq := in.Inquiry(s.now())
	if err := s.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return nil, translate(err, "create inquiry")
	}
	return &inq, nil
}

func (s *GormStore) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	rows := []domain.Inquiry{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list inquiries")
	}
	return rows, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return translate(err, "check username")
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return translate(s.db.WithContext(ctx).Create(user).Error, "create user")
}
