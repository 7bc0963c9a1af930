package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"contact-agenda-go/internal/models"
)

func (s *Store) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count category %d: %w", id, err)
	}
	return count > 0, nil
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ListCategories returns every category in the given SQL order ("id" when empty).
func (s *Store) ListCategories(ctx context.Context, order string) ([]models.Category, error) {
	if order == "" {
		order = "id"
	}
	var out []models.Category
	if err := s.db.WithContext(ctx).Order(order).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Store) SaveCategory(ctx context.Context, c *models.Category) error {
	db := s.db.WithContext(ctx)
	if c.ID == 0 {
		return db.Create(c).Error
	}
	return db.Save(c).Error
}

// DeleteCategory removes a category unless a contact still points at it.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Contact{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrCategoryInUse
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// EnsureCategories returns one category per name, creating the missing ones.
// When duplicates already exist the lowest id wins.
func (s *Store) EnsureCategories(ctx context.Context, names []string) ([]models.Category, error) {
	out := make([]models.Category, 0, len(names))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var c models.Category
			err := tx.Where("name = ?", name).Order("id").First(&c).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c = models.Category{Name: name}
				err = tx.Create(&c).Error
			}
			if err != nil {
				return fmt.Errorf("ensure category %q: %w", name, err)
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
