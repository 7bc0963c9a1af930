package forms

import (
	"context"
	"fmt"

	"contact-agenda-go/internal/identity"
	"contact-agenda-go/internal/models"
)

const MsgEmailExists = "This email already exists."

// UserStore is the account storage the registration forms need.
type UserStore interface {
	identity.UsernameChecker
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	SaveUser(ctx context.Context, u *models.User) error
}

// Accounts bundles what the account forms depend on.
type Accounts struct {
	Users  UserStore
	Policy *identity.PasswordPolicy
	Hasher identity.Hasher
}

func (a Accounts) rules() *identity.AccountRules {
	return &identity.AccountRules{Users: a.Users, Policy: a.Policy}
}

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// RegisterForm signs up a new account.
type RegisterForm struct {
	acc       Accounts
	input     RegisterInput
	errs      Errors
	validated bool
}

func NewRegisterForm(acc Accounts) *RegisterForm {
	return &RegisterForm{acc: acc, errs: Errors{}}
}

// Bind trims every field except the passwords.
func (f *RegisterForm) Bind(in RegisterInput) {
	f.input = RegisterInput{
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

func (f *RegisterForm) Errors() Errors { return f.errs }

func (f *RegisterForm) Validate(ctx context.Context) (bool, error) {
	in := f.input
	f.errs = Errors{}
	f.validated = false

	checkField(f.errs, "first_name", in.FirstName, Required(), MinLength(3), MaxLength(150))
	checkField(f.errs, "last_name", in.LastName, Required(), MinLength(3), MaxLength(150))
	if checkField(f.errs, "email", in.Email, Required(), Email(), MaxLength(254)) {
		taken, err := f.acc.Users.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return false, fmt.Errorf("check email: %w", err)
		}
		if taken {
			f.errs.Add("email", MsgEmailExists)
		}
	}

	rules := f.acc.rules()
	if err := rules.CheckUsername(ctx, f.errs, in.Username, 0); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	rules.CheckNewPassword(f.errs, in.Password1, in.Password2, f.candidate())

	f.validated = f.errs.Empty()
	return f.validated, nil
}

func (f *RegisterForm) candidate() *models.User {
	return &models.User{
		Username:  f.input.Username,
		Email:     f.input.Email,
		FirstName: f.input.FirstName,
		LastName:  f.input.LastName,
	}
}

// Save builds the account with a hashed password and, when commit is set,
// persists it.
func (f *RegisterForm) Save(ctx context.Context, commit bool) (*models.User, error) {
	if !f.validated {
		return nil, ErrNotValidated
	}
	u := f.candidate()
	if err := u.SetPassword(f.acc.Hasher, f.input.Password1); err != nil {
		return nil, err
	}
	if commit {
		if err := f.acc.Users.SaveUser(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}
