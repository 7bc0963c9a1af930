package store

import (
	"context"
	"fmt"
	"strings"

	"contact-agenda-go/internal/models"
)

// EmailTaken reports whether an account other than excludeID holds exactly
// this email. Pass 0 to consider every account.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

// UsernameTaken reports whether username belongs to another account. New
// accounts (excludeID 0) are compared case-insensitively; renames of an
// existing account only collide on an exact match.
func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if excludeID == 0 {
		q = q.Where("LOWER(username) = ?", strings.ToLower(username))
	} else {
		q = q.Where("username = ? AND id <> ?", username, excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by username: %w", err)
	}
	return count > 0, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(username)).First(&u).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// SaveUser inserts a new account or updates an existing one.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	db := s.db.WithContext(ctx)
	if u.ID == 0 {
		if err := db.Create(u).Error; err != nil {
			return fmt.Errorf("create user %q: %w", u.Username, err)
		}
		return nil
	}
	if err := db.Save(u).Error; err != nil {
		return fmt.Errorf("save user %d: %w", u.ID, err)
	}
	return nil
}
