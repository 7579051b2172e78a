package domain

// Category groups products. Categories are not modified after creation.
type Category struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:200" json:"name"`
	Slug        string  `gorm:"size:200;uniqueIndex" json:"slug"`
	Description *string `gorm:"type:text" json:"description"`
	ImageURL    *string `gorm:"size:1024" json:"imageUrl"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Slug        string  `json:"slug" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func (in CategoryInput) Category() Category {
	return Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}
