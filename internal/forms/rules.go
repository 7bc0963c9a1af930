package forms

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"contact-agenda-go/internal/identity"
)

const (
	MsgRequired      = identity.MsgRequired
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var validate = validator.New()

// Rule is a named check backed by a validator tag.
type Rule struct {
	tag     string
	message func(value string) string
}

func Required() Rule {
	return Rule{tag: "required", message: func(string) string { return MsgRequired }}
}

func Email() Rule {
	return Rule{tag: "email", message: func(string) string { return MsgInvalidEmail }}
}

func MinLength(n int) Rule {
	return Rule{tag: fmt.Sprintf("min=%d", n), message: func(v string) string {
		return fmt.Sprintf("Ensure this value has at least %d characters (it has %d).", n, utf8.RuneCountInString(v))
	}}
}

func MaxLength(n int) Rule {
	return Rule{tag: fmt.Sprintf("max=%d", n), message: func(v string) string {
		return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", n, utf8.RuneCountInString(v))
	}}
}

// WithMessage replaces the rule's default message.
func (r Rule) WithMessage(msg string) Rule {
	r.message = func(string) string { return msg }
	return r
}

// checkField runs rules in order and records the first failure on field.
// Blank values are only inspected by Required.
func checkField(errs Errors, field, value string, rules ...Rule) bool {
	for _, r := range rules {
		if value == "" && r.tag != "required" {
			continue
		}
		if err := validate.Var(value, r.tag); err != nil {
			errs.Add(field, r.message(value))
			return false
		}
	}
	return true
}

func clean(s string) string { return strings.TrimSpace(s) }
