// Package admin is the operator surface over categories and contacts. It
// writes through the store directly and skips the end-user forms.
package admin

import "strings"

// ModelAdmin describes how an entity is listed and edited by operators.
type ModelAdmin struct {
	Model            string
	ListDisplay      []string
	Ordering         []string
	SearchFields     []string
	ListPerPage      int
	ListMaxShowAll   int
	ListDisplayLinks []string
	ListEditable     []string
}

var ContactAdmin = ModelAdmin{
	Model:            "contact",
	ListDisplay:      []string{"id", "first_name", "last_name", "email", "phone", "show"},
	Ordering:         []string{"-id"},
	SearchFields:     []string{"id", "first_name", "last_name"},
	ListPerPage:      10,
	ListMaxShowAll:   100,
	ListDisplayLinks: []string{"first_name", "last_name", "email", "phone"},
	ListEditable:     []string{"show"},
}

var CategoryAdmin = ModelAdmin{
	Model:          "category",
	ListDisplay:    []string{"name"},
	Ordering:       []string{"id"},
	ListPerPage:    100,
	ListMaxShowAll: 200,
}

// OrderClause turns Ordering into SQL; a leading '-' means descending.
func (m ModelAdmin) OrderClause() string {
	parts := make([]string, 0, len(m.Ordering))
	for _, o := range m.Ordering {
		if strings.HasPrefix(o, "-") {
			parts = append(parts, strings.TrimPrefix(o, "-")+" desc")
			continue
		}
		parts = append(parts, o)
	}
	return strings.Join(parts, ", ")
}

func (m ModelAdmin) IsEditable(field string) bool {
	for _, f := range m.ListEditable {
		if f == field {
			return true
		}
	}
	return false
}
