package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"contact-agenda-go/internal/models"
)

const UsernameMaxLength = 150

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	MsgRequired        = "This field is required."
	MsgUsernameInvalid = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTaken   = "A user with that username already exists."
	MsgUsernameTooLong = "Ensure this value has at most 150 characters."
	MsgPasswordsDiffer = "The two password fields didn't match."
)

// UsernameChecker answers whether a username already belongs to an account
// other than excludeID.
type UsernameChecker interface {
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
}

// AccountRules are the base account-creation checks every signup goes
// through before any form-specific rule.
type AccountRules struct {
	Users  UsernameChecker
	Policy *PasswordPolicy
}

// Reporter receives (field, message) pairs.
type Reporter interface {
	Add(field, message string)
}

// CheckUsername validates format and uniqueness; excludeID skips the account
// being edited.
func (r *AccountRules) CheckUsername(ctx context.Context, rep Reporter, username string, excludeID uint) error {
	switch {
	case username == "":
		rep.Add("username", MsgRequired)
		return nil
	case len([]rune(username)) > UsernameMaxLength:
		rep.Add("username", MsgUsernameTooLong)
		return nil
	case !usernamePattern.MatchString(username):
		rep.Add("username", MsgUsernameInvalid)
		return nil
	}
	taken, err := r.Users.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		rep.Add("username", MsgUsernameTaken)
	}
	return nil
}

// CheckNewPassword handles the password1/password2 pair of a signup. Policy
// violations land on password2.
func (r *AccountRules) CheckNewPassword(rep Reporter, password1, password2 string, candidate *models.User) {
	if password1 == "" {
		rep.Add("password1", MsgRequired)
	}
	if password2 == "" {
		rep.Add("password2", MsgRequired)
	}
	if password1 == "" || password2 == "" {
		return
	}
	if password1 != password2 {
		rep.Add("password2", MsgPasswordsDiffer)
		return
	}
	ReportPolicy(rep, "password2", r.Policy.Validate(password2, candidate))
}

// ReportPolicy re-surfaces every policy message on field. Errors that are
// not policy errors are reported verbatim.
func ReportPolicy(rep Reporter, field string, err error) {
	if err == nil {
		return
	}
	var pe *PolicyError
	if errors.As(err, &pe) {
		for _, m := range pe.Messages {
			rep.Add(field, m)
		}
		return
	}
	rep.Add(field, strings.TrimSpace(err.Error()))
}
