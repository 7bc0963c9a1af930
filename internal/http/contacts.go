package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"contact-agenda-go/internal/forms"
	"contact-agenda-go/internal/models"
	"contact-agenda-go/internal/store"
)

const contactsPerPage = 10

var publicSearchFields = []string{"id", "first_name", "last_name", "phone", "email"}

// listContacts pages through visible contacts, newest first. Out of range
// pages are clamped to the nearest valid one.
func (s *Server) listContacts(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	page := queryPage(c)
	q := store.ContactQuery{
		Search:       strings.TrimSpace(c.Query("q")),
		SearchFields: publicSearchFields,
		VisibleOnly:  true,
		Order:        "id desc",
		Limit:        contactsPerPage,
		Offset:       (page - 1) * contactsPerPage,
	}
	contacts, total, err := s.store.ListContacts(ctx, q)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}

	pages := int((total + contactsPerPage - 1) / contactsPerPage)
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
		q.Offset = (page - 1) * contactsPerPage
		if contacts, total, err = s.store.ListContacts(ctx, q); err != nil {
			s.storeError(c, err, "contact")
			return
		}
	}

	c.JSON(200, gin.H{
		"contacts": contacts,
		"total":    total,
		"page":     page,
		"pages":    pages,
	})
}

func (s *Server) getContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, true)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	c.JSON(200, contact)
}

func (s *Server) createContact(c *gin.Context) {
	s.submitContact(c, nil)
}

func (s *Server) updateContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, true)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	s.submitContact(c, contact)
}

// submitContact runs the contact form for a new contact or for instance.
func (s *Server) submitContact(c *gin.Context, instance *models.Contact) {
	in, ok := s.contactInput(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	oldPicture := ""
	if instance != nil {
		oldPicture = instance.Picture
	}

	f := forms.NewContactForm(s.store, s.media, instance)
	f.Bind(in)
	valid, err := f.Validate(ctx)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	if !valid {
		validationFailed(c, f.Errors())
		return
	}
	contact, err := f.Save(ctx, true)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	if oldPicture != "" && oldPicture != contact.Picture {
		if err := s.media.Remove(oldPicture); err != nil {
			s.log.WithError(err).WithField("picture", oldPicture).Warn("failed to remove replaced picture")
		}
	}

	// reload so the response carries the category
	if full, err := s.store.GetContact(ctx, contact.ID, false); err == nil {
		contact = full
	}
	status := 200
	if instance == nil {
		status = 201
	}
	c.JSON(status, contact)
}

// contactInput reads a contact submission from JSON or from a form post,
// where the optional picture travels as a file part.
func (s *Server) contactInput(c *gin.Context) (forms.ContactInput, bool) {
	var in forms.ContactInput
	ct := c.ContentType()
	if ct != "multipart/form-data" && ct != "application/x-www-form-urlencoded" {
		return in, bindJSON(c, s.schemas.contact, &in)
	}

	in.FirstName = c.PostForm("first_name")
	in.LastName = c.PostForm("last_name")
	in.Phone = c.PostForm("phone")
	in.Email = c.PostForm("email")
	in.Description = c.PostForm("description")
	if raw := strings.TrimSpace(c.PostForm("category")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			validationFailed(c, forms.Errors{"category": {forms.MsgInvalidChoice}})
			return in, false
		}
		in.CategoryID = uint(id)
	}

	file, header, err := c.Request.FormFile("picture")
	if err != nil {
		return in, true
	}
	defer file.Close()
	if header.Size > s.cfg.MaxUploadMB*1024*1024 {
		c.JSON(413, gin.H{"error": "file too large"})
		return in, false
	}
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, file); err != nil {
		c.JSON(400, gin.H{"error": "failed to read file"})
		return in, false
	}
	in.Picture = &forms.Upload{Filename: header.Filename, Data: buf.Bytes()}
	return in, true
}

func (s *Server) deleteContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, true)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	s.removeContact(c, contact)
}

func (s *Server) removeContact(c *gin.Context, contact *models.Contact) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.store.DeleteContact(ctx, contact.ID); err != nil {
		s.storeError(c, err, "contact")
		return
	}
	if contact.HasPicture() {
		if err := s.media.Remove(contact.Picture); err != nil {
			s.log.WithError(err).WithField("picture", contact.Picture).Warn("failed to remove picture")
		}
	}
	c.JSON(200, gin.H{"message": "contact deleted"})
}
