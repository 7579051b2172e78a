package domain

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a back-office account. Storefront visitors never log in.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex" json:"username"`
	Password  string    `gorm:"size:200" json:"-"`
	Role      string    `gorm:"size:32" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}
