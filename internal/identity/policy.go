package identity

import (
	"fmt"
	"strings"
	"unicode"

	"contact-agenda-go/internal/models"
)

// PolicyError carries every rule the password broke.
type PolicyError struct {
	Messages []string
}

func (e *PolicyError) Error() string {
	return "password policy: " + strings.Join(e.Messages, " ")
}

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// PasswordPolicy is the strength check shared by registration and profile
// updates.
type PasswordPolicy struct {
	MinLength int
	Common    map[string]struct{}
}

func NewPasswordPolicy(minLength int) *PasswordPolicy {
	if minLength <= 0 {
		minLength = 8
	}
	common := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		common[p] = struct{}{}
	}
	return &PasswordPolicy{MinLength: minLength, Common: common}
}

// Validate returns nil or a *PolicyError. user may be nil; when given, the
// password is compared against its profile attributes.
func (p *PasswordPolicy) Validate(password string, user *models.User) error {
	var msgs []string

	if user != nil {
		for _, attr := range []struct{ label, value string }{
			{"username", user.Username},
			{"first name", user.FirstName},
			{"last name", user.LastName},
			{"email address", user.Email},
		} {
			if tooSimilar(password, attr.value) {
				msgs = append(msgs, fmt.Sprintf("The password is too similar to the %s.", attr.label))
				break
			}
		}
	}

	if n := len([]rune(password)); n < p.MinLength {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordBytes))
	}
	if _, ok := p.Common[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	if isNumeric(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}

	if len(msgs) > 0 {
		return &PolicyError{Messages: msgs}
	}
	return nil
}

// tooSimilar flags passwords that contain, or are contained in, an attribute
// (or the local part of an email) of at least three characters.
func tooSimilar(password, attr string) bool {
	pw := strings.ToLower(password)
	for _, part := range strings.FieldsFunc(strings.ToLower(attr), func(r rune) bool {
		return r == '@' || r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsSpace(r)
	}) {
		if len(part) < 3 || pw == "" {
			continue
		}
		if strings.Contains(pw, part) || strings.Contains(part, pw) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var commonPasswords = []string{
	"123456", "12345678", "123456789", "1234567890", "password", "password1",
	"qwerty", "qwertyuiop", "abc123", "111111", "123123", "iloveyou",
	"admin", "welcome", "monkey", "dragon", "letmein", "football",
	"baseball", "sunshine", "princess", "passw0rd", "trustno1", "master",
	"superman", "starwars", "whatever", "1q2w3e4r", "zaq12wsx", "qazwsxedc",
	"000000", "654321", "michael", "shadow", "freedom", "computer",
}
