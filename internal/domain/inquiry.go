package domain

import (
	"strings"
	"time"
)

// Inquiry is a customer contact request. Inquiries are append only.
type Inquiry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id" csv:"id"`
	FullName  string    `gorm:"size:200" json:"fullName" csv:"full_name"`
	Email     string    `gorm:"size:320;index" json:"email" csv:"email"`
	Phone     *string   `gorm:"size:64" json:"phone" csv:"phone"`
	Company   *string   `gorm:"size:200" json:"company" csv:"company"`
	Interest  *string   `gorm:"size:64" json:"interest" csv:"interest"`
	Message   string    `gorm:"type:text" json:"message" csv:"message"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" csv:"created_at"`
}

// TableName Specify table name
func (Inquiry) TableName() string {
	return "inquiries"
}

// InquiryInput is the payload accepted from the contact form. It has no
// createdAt field: the creation time is always assigned by the server.
type InquiryInput struct {
	FullName string  `json:"fullName" validate:"required,min=2,max=200"`
	Email    string  `json:"email" validate:"required,email,max=320"`
	Phone    *string `json:"phone" validate:"omitempty,min=10,max=64"`
	Company  *string `json:"company" validate:"omitempty,max=200"`
	Interest *string `json:"interest" validate:"omitempty,oneof=chairs desks conference storage complete"`
	Message  string  `json:"message" validate:"required,min=10,max=5000"`
}

// Normalize trims every field and turns blank optional fields into nil so
// that an empty form input is treated as absent.
func (in InquiryInput) Normalize() InquiryInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.Phone = blankToNil(in.Phone)
	in.Company = blankToNil(in.Company)
	in.Interest = blankToNil(in.Interest)
	return in
}

func (in InquiryInput) Inquiry(now time.Time) Inquiry {
	return Inquiry{
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     blankToNil(in.Phone),
		Company:   blankToNil(in.Company),
		Interest:  blankToNil(in.Interest),
		Message:   in.Message,
		CreatedAt: now,
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
