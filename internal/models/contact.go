package models

import (
	"time"

	"gorm.io/gorm"
)

type Contact struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:50;not null" json:"first_name"`
	LastName    string    `gorm:"size:50;not null" json:"last_name"`
	Phone       string    `gorm:"size:50;not null" json:"phone"`
	Email       string    `gorm:"size:254;not null" json:"email"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`

	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// Picture is a path relative to the media root; empty means no image.
	Picture string `gorm:"size:100;not null" json:"picture"`
	Show    bool   `gorm:"not null" json:"show"`
}

func (Contact) TableName() string { return "contacts" }

// NewContact returns a contact carrying the entity defaults: visible and
// created now.
func NewContact() *Contact {
	return &Contact{Show: true, CreatedDate: time.Now()}
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now()
	}
	return nil
}

func (c *Contact) HasPicture() bool { return c.Picture != "" }

func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
