package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Product is a catalog item. Prices are whole currency amounts without minor units.
type Product struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"size:200;index" json:"name"`
	Slug            string    `gorm:"size:200;uniqueIndex" json:"slug"`
	Description     *string   `gorm:"type:text" json:"description"`
	Price           int64     `json:"price"`
	DiscountedPrice *int64    `json:"discountedPrice"`
	ImageURL        string    `gorm:"size:1024" json:"imageUrl"`
	Gallery         []string  `gorm:"serializer:json;type:text" json:"gallery"`
	CategoryID      int64     `gorm:"index" json:"categoryId"`
	Featured        bool      `gorm:"index" json:"featured"`
	InStock         bool      `json:"inStock"`
	Rating          *float64  `json:"rating"`
	Badges          []string  `gorm:"serializer:json;type:text" json:"badges"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the price a customer pays, the discounted price when one is set.
func (p Product) EffectivePrice() int64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// Clone returns a deep copy so stored records never share slices with callers.
func (p Product) Clone() Product {
	out := p
	out.Gallery = append([]string(nil), p.Gallery...)
	out.Badges = append([]string(nil), p.Badges...)
	if p.Description != nil {
		v := *p.Description
		out.Description = &v
	}
	if p.DiscountedPrice != nil {
		v := *p.DiscountedPrice
		out.DiscountedPrice = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		out.Rating = &v
	}
	return out
}

// ProductInput holds the fields of a product to be created.
type ProductInput struct {
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Slug            string   `json:"slug" validate:"required,min=1,max=200"`
	Description     *string  `json:"description"`
	Price           int64    `json:"price" validate:"gte=0"`
	DiscountedPrice *int64   `json:"discountedPrice" validate:"omitempty,gte=0"`
	ImageURL        string   `json:"imageUrl" validate:"required"`
	Gallery         []string `json:"gallery"`
	CategoryID      int64    `json:"categoryId" validate:"required,gt=0"`
	Featured        bool     `json:"featured"`
	InStock         bool     `json:"inStock"`
	Rating          *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Badges          []string `json:"badges"`
}

// Validate checks the cross-field rules the tags cannot express.
func (in ProductInput) Validate() error {
	return checkProductFields(in.Price, in.DiscountedPrice, in.Rating)
}

// Product builds the record, without an id, described by the input.
func (in ProductInput) Product() Product {
	p := Product{
		Name:            in.Name,
		Slug:            in.Slug,
		Description:     in.Description,
		Price:           in.Price,
		DiscountedPrice: in.DiscountedPrice,
		ImageURL:        in.ImageURL,
		Gallery:         in.Gallery,
		CategoryID:      in.CategoryID,
		Featured:        in.Featured,
		InStock:         in.InStock,
		Rating:          in.Rating,
		Badges:          in.Badges,
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	return p.Clone()
}

// ProductPatch is a partial update; nil fields are left unchanged and the
// Clear flags reset nullable fields to null.
type ProductPatch struct {
	Name            *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Slug            *string   `json:"slug" validate:"omitempty,min=1,max=200"`
	Description     *string   `json:"description"`
	Price           *int64    `json:"price" validate:"omitempty,gte=0"`
	DiscountedPrice *int64    `json:"discountedPrice" validate:"omitempty,gte=0"`
	ImageURL        *string   `json:"imageUrl"`
	Gallery         *[]string `json:"gallery"`
	CategoryID      *int64    `json:"categoryId" validate:"omitempty,gt=0"`
	Featured        *bool     `json:"featured"`
	InStock         *bool     `json:"inStock"`
	Rating          *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Badges          *[]string `json:"badges"`

	// Set when the body carries an explicit null for the nullable field.
	ClearDescription     bool `json:"-"`
	ClearDiscountedPrice bool `json:"-"`
	ClearRating          bool `json:"-"`
}

// UnmarshalJSON decodes the patch and records which nullable fields were
// sent as null, so that null clears a field while an absent key keeps it.
func (patch *ProductPatch) UnmarshalJSON(data []byte) error {
	type plain ProductPatch
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	isNull := func(key string) bool {
		v, ok := raw[key]
		return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	}
	out.ClearDescription = isNull("description")
	out.ClearDiscountedPrice = isNull("discountedPrice")
	out.ClearRating = isNull("rating")
	*patch = ProductPatch(out)
	return nil
}

// Apply returns p with the patch merged in. The result is validated as a whole.
func (patch ProductPatch) Apply(p Product) (Product, error) {
	out := p.Clone()
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Slug != nil {
		out.Slug = *patch.Slug
	}
	if patch.Description != nil {
		v := *patch.Description
		out.Description = &v
	}
	if patch.Price != nil {
		out.Price = *patch.Price
	}
	if patch.DiscountedPrice != nil {
		v := *patch.DiscountedPrice
		out.DiscountedPrice = &v
	}
	if patch.ImageURL != nil {
		out.ImageURL = *patch.ImageURL
	}
	if patch.Gallery != nil {
		out.Gallery = append([]string{}, (*patch.Gallery)...)
	}
	if patch.CategoryID != nil {
		out.CategoryID = *patch.CategoryID
	}
	if patch.Featured != nil {
		out.Featured = *patch.Featured
	}
	if patch.InStock != nil {
		out.InStock = *patch.InStock
	}
	if patch.Rating != nil {
		v := *patch.Rating
		out.Rating = &v
	}
	if patch.Badges != nil {
		out.Badges = append([]string{}, (*patch.Badges)...)
	}
	if patch.ClearDescription {
		out.Description = nil
	}
	if patch.ClearDiscountedPrice {
		out.DiscountedPrice = nil
	}
	if patch.ClearRating {
		out.Rating = nil
	}
	if err := checkProductFields(out.Price, out.DiscountedPrice, out.Rating); err != nil {
		return p, err
	}
	return out, nil
}

func checkProductFields(price int64, discounted *int64, rating *float64) error {
	if price < 0 {
		return Invalid("price must be non-negative")
	}
	if discounted != nil && *discounted >= price {
		return Invalid("discountedPrice must be lower than price")
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		return Invalid("rating must be between 0 and 5")
	}
	return nil
}
