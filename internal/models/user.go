package models

import (
	"time"
)

// PasswordHasher is the one-way transformation applied to plaintext
// passwords before they are stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;not null;index" json:"email"` // unique by form check only
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "auth_users" }

func (u *User) SetPassword(h PasswordHasher, password string) error {
	hash, err := h.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(h PasswordHasher, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return h.Verify(password, u.PasswordHash)
}
