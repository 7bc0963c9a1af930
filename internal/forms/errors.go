// Package forms binds submitted fields, validates them and maps the result
// onto persisted entities.
package forms

import "errors"

// ErrNotValidated is returned by Save when the form has not passed Validate
// since its last Bind.
var ErrNotValidated = errors.New("forms: save requires a successful validation")

// Errors maps a field name to its messages, in the order they were raised.
type Errors map[string][]string

// Add attaches msg to field. Any field may receive errors, not only the one
// currently being checked.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

func (e Errors) Empty() bool { return len(e) == 0 }
