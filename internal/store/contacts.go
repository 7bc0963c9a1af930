package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"contact-agenda-go/internal/models"
)

// ContactQuery describes a filtered, ordered page of contacts.
type ContactQuery struct {
	// Search is split on whitespace; every term must match at least one of
	// SearchFields (case-insensitive substring).
	Search       string
	SearchFields []string
	VisibleOnly  bool
	Order        string
	Limit        int
	Offset       int
}

var searchable = map[string]string{
	"id":         "CAST(contacts.id AS TEXT)",
	"first_name": "contacts.first_name",
	"last_name":  "contacts.last_name",
	"email":      "contacts.email",
	"phone":      "contacts.phone",
}

func (s *Store) GetContact(ctx context.Context, id uint, visibleOnly bool) (*models.Contact, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if visibleOnly {
		q = q.Where("show = ?", true)
	}
	var c models.Contact
	if err := q.First(&c, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) SaveContact(ctx context.Context, c *models.Contact) error {
	db := s.db.WithContext(ctx)
	if c.ID == 0 {
		if err := db.Omit("Category").Create(c).Error; err != nil {
			return fmt.Errorf("create contact: %w", err)
		}
		return nil
	}
	if err := db.Omit("Category").Save(c).Error; err != nil {
		return fmt.Errorf("save contact %d: %w", c.ID, err)
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListContacts returns the requested page and the total number of matches.
func (s *Store) ListContacts(ctx context.Context, q ContactQuery) ([]models.Contact, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Contact{})
	if q.VisibleOnly {
		base = base.Where("show = ?", true)
	}
	for _, term := range strings.Fields(q.Search) {
		var clauses []string
		var args []any
		for _, f := range q.SearchFields {
			col, ok := searchable[f]
			if !ok {
				return nil, 0, fmt.Errorf("field %q is not searchable", f)
			}
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, "%"+strings.ToLower(term)+"%")
		}
		if len(clauses) > 0 {
			base = base.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	order := q.Order
	if order == "" {
		order = "id desc"
	}
	page := base.Preload("Category").Order(order)
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}
	if q.Offset > 0 {
		page = page.Offset(q.Offset)
	}

	var out []models.Contact
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return out, total, nil
}

// SetContactsShow applies visibility changes in one transaction.
func (s *Store) SetContactsShow(ctx context.Context, changes map[uint]bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, show := range changes {
			res := tx.Model(&models.Contact{}).Where("id = ?", id).Update("show", show)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("contact %d: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

// BulkCreateContacts inserts all contacts inside a single transaction: either
// every row is written or none is.
func (s *Store) BulkCreateContacts(ctx context.Context, contacts []models.Contact, batchSize int) error {
	if len(contacts) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").CreateInBatches(&contacts, batchSize).Error; err != nil {
			return fmt.Errorf("bulk create %d contacts: %w", len(contacts), err)
		}
		return nil
	})
}

func (s *Store) CountContacts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Contact{}).Count(&n).Error
	return n, err
}
