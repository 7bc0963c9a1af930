package http

import (
	"github.com/gin-gonic/gin"

	"contact-agenda-go/internal/forms"
)

func (s *Server) authRegister(c *gin.Context) {
	var input forms.RegisterInput
	if !bindJSON(c, s.schemas.register, &input) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	f := forms.NewRegisterForm(s.accounts)
	f.Bind(input)
	valid, err := f.Validate(ctx)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	if !valid {
		validationFailed(c, f.Errors())
		return
	}

	user, err := f.Save(ctx, true)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	s.log.WithField("user_id", user.ID).Info("account registered")
	c.JSON(201, user)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	c.JSON(200, user)
}

// updateUser edits a profile. With ?commit=false the updated account is
// returned without being stored.
func (s *Server) updateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	commit := c.DefaultQuery("commit", "true") != "false"

	var input forms.RegisterUpdateInput
	if !bindJSON(c, s.schemas.userUpdate, &input) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}

	f, err := forms.NewRegisterUpdateForm(s.accounts, user)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	f.Bind(input)
	valid, err := f.Validate(ctx)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	if !valid {
		validationFailed(c, f.Errors())
		return
	}

	updated, err := f.Save(ctx, commit)
	if err != nil {
		s.storeError(c, err, "user")
		return
	}
	c.JSON(200, gin.H{"user": updated, "committed": commit})
}
