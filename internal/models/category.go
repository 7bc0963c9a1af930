package models

import "time"

// Category groups contacts. Names are not unique; operators are trusted
// not to create duplicates.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

func (c Category) String() string { return c.Name }
