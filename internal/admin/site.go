package admin

import (
	"context"
	"errors"
	"fmt"

	"contact-agenda-go/internal/models"
	"contact-agenda-go/internal/store"
)

var (
	ErrInvalidPage  = errors.New("admin: page out of range")
	ErrNotEditable  = errors.New("admin: field is not editable from the list")
	ErrInvalidValue = errors.New("admin: invalid value")
)

type Store interface {
	ListContacts(ctx context.Context, q store.ContactQuery) ([]models.Contact, int64, error)
	SetContactsShow(ctx context.Context, changes map[uint]bool) error
	ListCategories(ctx context.Context, order string) ([]models.Category, error)
}

type Row struct {
	ID     uint           `json:"id"`
	Values map[string]any `json:"values"`
}

type ChangeList struct {
	Model    string   `json:"model"`
	Columns  []string `json:"columns"`
	Links    []string `json:"links,omitempty"`
	Editable []string `json:"editable,omitempty"`
	Query    string   `json:"query,omitempty"`
	Rows     []Row    `json:"rows"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PerPage  int      `json:"per_page"`
	Pages    int      `json:"pages"`
	ShowAll  bool     `json:"show_all"`
}

type Site struct {
	store    Store
	contacts ModelAdmin
	category ModelAdmin
}

func NewSite(s Store) *Site {
	return &Site{store: s, contacts: ContactAdmin, category: CategoryAdmin}
}

// ContactChangeList returns one page of contacts matching query. Pages start
// at 1. all lists every match on one page, but only while the total stays
// within ListMaxShowAll; past that it falls back to normal paging.
func (s *Site) ContactChangeList(ctx context.Context, query string, page int, all bool) (*ChangeList, error) {
	m := s.contacts
	if page < 1 {
		return nil, ErrInvalidPage
	}
	q := store.ContactQuery{
		Search:       query,
		SearchFields: m.SearchFields,
		Order:        m.OrderClause(),
		Limit:        m.ListPerPage,
		Offset:       (page - 1) * m.ListPerPage,
	}
	if all {
		q.Limit, q.Offset = m.ListMaxShowAll, 0
	}

	contacts, total, err := s.store.ListContacts(ctx, q)
	if err != nil {
		return nil, err
	}
	if all && total > int64(m.ListMaxShowAll) {
		all = false
		q.Limit, q.Offset = m.ListPerPage, (page-1)*m.ListPerPage
		if contacts, total, err = s.store.ListContacts(ctx, q); err != nil {
			return nil, err
		}
	}

	cl := &ChangeList{
		Model:    m.Model,
		Columns:  m.ListDisplay,
		Links:    m.ListDisplayLinks,
		Editable: m.ListEditable,
		Query:    query,
		Total:    total,
		Page:     page,
		PerPage:  m.ListPerPage,
		Pages:    int((total + int64(m.ListPerPage) - 1) / int64(m.ListPerPage)),
	}
	if all {
		cl.ShowAll = true
		cl.PerPage = m.ListMaxShowAll
		cl.Pages = 1
	}
	if cl.Pages == 0 {
		cl.Pages = 1
	}
	if page > cl.Pages {
		return nil, ErrInvalidPage
	}

	cl.Rows = make([]Row, 0, len(contacts))
	for i := range contacts {
		cl.Rows = append(cl.Rows, project(m, contacts[i].ID, contactField(&contacts[i])))
	}
	return cl, nil
}

func (s *Site) CategoryChangeList(ctx context.Context) (*ChangeList, error) {
	m := s.category
	cats, err := s.store.ListCategories(ctx, m.OrderClause())
	if err != nil {
		return nil, err
	}
	cl := &ChangeList{
		Model:   m.Model,
		Columns: m.ListDisplay,
		Rows:    make([]Row, 0, len(cats)),
		Total:   int64(len(cats)),
		Page:    1,
		PerPage: m.ListPerPage,
		Pages:   1,
	}
	for i := range cats {
		c := &cats[i]
		cl.Rows = append(cl.Rows, project(m, c.ID, func(field string) any {
			switch field {
			case "id":
				return c.ID
			case "name":
				return c.Name
			}
			return nil
		}))
	}
	return cl, nil
}

// UpdateEditable applies list edits keyed by contact id. Every field must be
// listed in ListEditable; nothing is written when one is not.
func (s *Site) UpdateEditable(ctx context.Context, changes map[uint]map[string]any) error {
	show := make(map[uint]bool, len(changes))
	for id, fields := range changes {
		for field, v := range fields {
			if !s.contacts.IsEditable(field) {
				return fmt.Errorf("%s: %w", field, ErrNotEditable)
			}
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("contact %d: %s must be a boolean: %w", id, field, ErrInvalidValue)
			}
			show[id] = b
		}
	}
	if len(show) == 0 {
		return nil
	}
	return s.store.SetContactsShow(ctx, show)
}

func contactField(c *models.Contact) func(string) any {
	return func(field string) any {
		switch field {
		case "id":
			return c.ID
		case "first_name":
			return c.FirstName
		case "last_name":
			return c.LastName
		case "email":
			return c.Email
		case "phone":
			return c.Phone
		case "show":
			return c.Show
		}
		return nil
	}
}

func project(m ModelAdmin, id uint, value func(string) any) Row {
	r := Row{ID: id, Values: make(map[string]any, len(m.ListDisplay))}
	for _, f := range m.ListDisplay {
		r.Values[f] = value(f)
	}
	return r
}
