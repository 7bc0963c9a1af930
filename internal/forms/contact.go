package forms

import (
	"context"
	"fmt"

	"contact-agenda-go/internal/media"
	"contact-agenda-go/internal/models"
)

const (
	MsgFirstNameRejected = "First name ABC is not accepted."
	MsgSameNames         = "Last name cannot be the same as first name."
)

// Upload is a submitted file.
type Upload struct {
	Filename string
	Data     []byte
}

type ContactInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category"`
	Picture     *Upload `json:"-"`
}

type ContactStore interface {
	CategoryExists(ctx context.Context, id uint) (bool, error)
	SaveContact(ctx context.Context, c *models.Contact) error
}

type PictureStore interface {
	SavePicture(ctx context.Context, filename string, data []byte) (string, error)
	Remove(name string) error
}

// ContactForm creates a contact or, given an instance, edits it.
type ContactForm struct {
	contacts ContactStore
	pictures PictureStore
	instance *models.Contact

	input     ContactInput
	errs      Errors
	validated bool
}

// NewContactForm returns a form for instance, or for a new contact when
// instance is nil.
func NewContactForm(contacts ContactStore, pictures PictureStore, instance *models.Contact) *ContactForm {
	return &ContactForm{contacts: contacts, pictures: pictures, instance: instance, errs: Errors{}}
}

func (f *ContactForm) Bind(in ContactInput) {
	f.input = ContactInput{
		FirstName:   clean(in.FirstName),
		LastName:    clean(in.LastName),
		Phone:       clean(in.Phone),
		Email:       clean(in.Email),
		Description: clean(in.Description),
		CategoryID:  in.CategoryID,
		Picture:     in.Picture,
	}
	f.errs = Errors{}
	f.validated = false
}

func (f *ContactForm) Errors() Errors { return f.errs }

// Validate reports whether the bound input is acceptable. The error is only
// set when a lookup failed.
func (f *ContactForm) Validate(ctx context.Context) (bool, error) {
	in := f.input
	f.errs = Errors{}
	f.validated = false

	if checkField(f.errs, "first_name", in.FirstName, Required(), MaxLength(50)) && in.FirstName == "ABC" {
		f.errs.Add("first_name", MsgFirstNameRejected)
	}
	checkField(f.errs, "last_name", in.LastName, Required(), MaxLength(50))
	checkField(f.errs, "phone", in.Phone, Required(), MaxLength(50))
	checkField(f.errs, "email", in.Email, Required(), Email(), MaxLength(254))

	if in.CategoryID == 0 {
		f.errs.Add("category", MsgRequired)
	} else {
		ok, err := f.contacts.CategoryExists(ctx, in.CategoryID)
		if err != nil {
			return false, fmt.Errorf("check category %d: %w", in.CategoryID, err)
		}
		if !ok {
			f.errs.Add("category", MsgInvalidChoice)
		}
	}

	if in.Picture != nil {
		if _, _, err := media.DetectImage(in.Picture.Data); err != nil {
			f.errs.Add("picture", MsgInvalidImage)
		}
	}

	if in.FirstName != "" && in.FirstName == in.LastName {
		f.errs.Add("last_name", MsgSameNames)
	}

	f.validated = f.errs.Empty()
	return f.validated, nil
}

// Save maps the input onto the contact. With commit false the contact is
// returned without touching storage and any new picture is left unwritten.
func (f *ContactForm) Save(ctx context.Context, commit bool) (*models.Contact, error) {
	if !f.validated {
		return nil, ErrNotValidated
	}

	c := models.NewContact()
	if f.instance != nil {
		cp := *f.instance
		c = &cp
	}
	in := f.input
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Phone = in.Phone
	c.Email = in.Email
	c.Description = in.Description
	if c.CategoryID != in.CategoryID {
		c.Category = nil
	}
	c.CategoryID = in.CategoryID

	if !commit {
		return c, nil
	}

	var stored string
	if in.Picture != nil {
		name, err := f.pictures.SavePicture(ctx, in.Picture.Filename, in.Picture.Data)
		if err != nil {
			return nil, err
		}
		stored, c.Picture = name, name
	}
	if err := f.contacts.SaveContact(ctx, c); err != nil {
		if stored != "" {
			_ = f.pictures.Remove(stored)
		}
		return nil, err
	}
	if f.instance != nil {
		*f.instance = *c
	}
	return c, nil
}
