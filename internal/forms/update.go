package forms

import (
	"context"
	"errors"
	"fmt"

	"contact-agenda-go/internal/identity"
	"contact-agenda-go/internal/models"
)

const (
	MsgFirstNameShort   = "Please enter more than 2 characters."
	MsgPasswordMismatch = "Passwords do not match."
)

type RegisterUpdateInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// RegisterUpdateForm edits an existing account's profile and, optionally,
// its password.
type RegisterUpdateForm struct {
	acc       Accounts
	instance  *models.User
	input     RegisterUpdateInput
	errs      Errors
	validated bool
}

var ErrNoInstance = errors.New("forms: an existing user is required")

func NewRegisterUpdateForm(acc Accounts, instance *models.User) (*RegisterUpdateForm, error) {
	if instance == nil {
		return nil, ErrNoInstance
	}
	return &RegisterUpdateForm{acc: acc, instance: instance, errs: Errors{}}, nil
}

func (f *RegisterUpdateForm) Bind(in RegisterUpdateInput) {
	f.input = RegisterUpdateInput{
		FirstName: clean(in.FirstName),
		LastName:  clean(in.LastName),
		Email:     clean(in.Email),
		Username:  clean(in.Username),
		Password1: in.Password1,
		Password2: in.Password2,
	}
	f.errs = Errors{}
	f.validated = false
}

func (f *RegisterUpdateForm) Errors() Errors { return f.errs }

func (f *RegisterUpdateForm) Validate(ctx context.Context) (bool, error) {
	in := f.input
	f.errs = Errors{}
	f.validated = false

	checkField(f.errs, "first_name", in.FirstName, Required(), MinLength(2).WithMessage(MsgFirstNameShort), MaxLength(30))
	checkField(f.errs, "last_name", in.LastName, Required(), MinLength(2), MaxLength(30))

	// only a changed, non-blank email is checked against other accounts
	if checkField(f.errs, "email", in.Email, Email(), MaxLength(254)) &&
		in.Email != "" && in.Email != f.instance.Email {
		taken, err := f.acc.Users.EmailTaken(ctx, in.Email, f.instance.ID)
		if err != nil {
			return false, fmt.Errorf("check email: %w", err)
		}
		if taken {
			f.errs.Add("email", MsgEmailExists)
		}
	}

	if err := f.acc.rules().CheckUsername(ctx, f.errs, in.Username, f.instance.ID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}

	if in.Password1 != "" {
		identity.ReportPolicy(f.errs, "password1", f.acc.Policy.Validate(in.Password1, nil))
	}
	if (in.Password1 != "" || in.Password2 != "") && in.Password1 != in.Password2 {
		f.errs.Add("password2", MsgPasswordMismatch)
	}

	f.validated = f.errs.Empty()
	return f.validated, nil
}

// Save applies the changes to a copy of the account. The stored hash only
// changes when a new password was given. With commit false nothing is
// written and the instance is left as it was.
func (f *RegisterUpdateForm) Save(ctx context.Context, commit bool) (*models.User, error) {
	if !f.validated {
		return nil, ErrNotValidated
	}
	u := *f.instance
	u.FirstName = f.input.FirstName
	u.LastName = f.input.LastName
	u.Email = f.input.Email
	u.Username = f.input.Username
	if f.input.Password1 != "" {
		if err := u.SetPassword(f.acc.Hasher, f.input.Password1); err != nil {
			return nil, err
		}
	}
	if !commit {
		return &u, nil
	}
	if err := f.acc.Users.SaveUser(ctx, &u); err != nil {
		return nil, err
	}
	*f.instance = u
	return &u, nil
}
