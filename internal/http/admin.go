package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"contact-agenda-go/internal/admin"
	"contact-agenda-go/internal/models"
)

type adminContactInput struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Description string     `json:"description"`
	CategoryID  uint       `json:"category"`
	Show        *bool      `json:"show"`
	CreatedDate *time.Time `json:"created_date"`
}

func (in adminContactInput) apply(c *models.Contact) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Phone = in.Phone
	c.Email = in.Email
	c.Description = in.Description
	if c.CategoryID != in.CategoryID {
		c.Category = nil
	}
	c.CategoryID = in.CategoryID
	if in.Show != nil {
		c.Show = *in.Show
	}
	if in.CreatedDate != nil {
		c.CreatedDate = *in.CreatedDate
	}
}

func (s *Server) adminListContacts(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	all := c.Query("all") != ""
	cl, err := s.site.ContactChangeList(ctx, strings.TrimSpace(c.Query("q")), queryPage(c), all)
	if errors.Is(err, admin.ErrInvalidPage) {
		c.JSON(404, gin.H{"error": "invalid page"})
		return
	}
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	c.JSON(200, cl)
}

func (s *Server) adminGetContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, false)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	c.JSON(200, contact)
}

func (s *Server) adminCreateContact(c *gin.Context) {
	s.adminSaveContact(c, models.NewContact(), 201)
}

func (s *Server) adminUpdateContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, false)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	s.adminSaveContact(c, contact, 200)
}

// adminSaveContact writes the body onto contact without running the contact
// form; only the category reference is checked.
func (s *Server) adminSaveContact(c *gin.Context, contact *models.Contact, status int) {
	var input adminContactInput
	if !bindJSON(c, s.schemas.adminContact, &input) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	exists, err := s.store.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		s.storeError(c, err, "category")
		return
	}
	if !exists {
		c.JSON(400, gin.H{"error": "unknown category"})
		return
	}

	input.apply(contact)
	if err := s.store.SaveContact(ctx, contact); err != nil {
		s.storeError(c, err, "contact")
		return
	}
	if full, err := s.store.GetContact(ctx, contact.ID, false); err == nil {
		contact = full
	}
	c.JSON(status, contact)
}

func (s *Server) adminDeleteContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	contact, err := s.store.GetContact(ctx, id, false)
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	s.removeContact(c, contact)
}

// adminEditList applies list_editable changes: {"changes": {"12": {"show": false}}}.
func (s *Server) adminEditList(c *gin.Context) {
	var input struct {
		Changes map[string]map[string]any `json:"changes"`
	}
	if !bindJSON(c, s.schemas.listEdit, &input) {
		return
	}
	changes := make(map[uint]map[string]any, len(input.Changes))
	for key, fields := range input.Changes {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid id " + key})
			return
		}
		changes[uint(id)] = fields
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	err := s.site.UpdateEditable(ctx, changes)
	if errors.Is(err, admin.ErrNotEditable) || errors.Is(err, admin.ErrInvalidValue) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.storeError(c, err, "contact")
		return
	}
	c.JSON(200, gin.H{"updated": len(changes)})
}

func (s *Server) adminListCategories(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	cl, err := s.site.CategoryChangeList(ctx)
	if err != nil {
		s.storeError(c, err, "category")
		return
	}
	c.JSON(200, cl)
}

func (s *Server) adminCreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, s.schemas.category, &input) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	cat := &models.Category{Name: strings.TrimSpace(input.Name)}
	if err := s.store.SaveCategory(ctx, cat); err != nil {
		s.storeError(c, err, "category")
		return
	}
	c.JSON(201, cat)
}

func (s *Server) adminUpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, s.schemas.category, &input) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	cat, err := s.store.GetCategory(ctx, id)
	if err != nil {
		s.storeError(c, err, "category")
		return
	}
	cat.Name = strings.TrimSpace(input.Name)
	if err := s.store.SaveCategory(ctx, cat); err != nil {
		s.storeError(c, err, "category")
		return
	}
	c.JSON(200, cat)
}

func (s *Server) adminDeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		s.storeError(c, err, "category")
		return
	}
	c.JSON(200, gin.H{"message": "category deleted"})
}
