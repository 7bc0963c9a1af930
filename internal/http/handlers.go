package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"contact-agenda-go/internal/admin"
	"contact-agenda-go/internal/config"
	"contact-agenda-go/internal/forms"
	"contact-agenda-go/internal/identity"
	"contact-agenda-go/internal/media"
	"contact-agenda-go/internal/store"
)

// Deps are the collaborators the handlers work with.
type Deps struct {
	Store  *store.Store
	Media  *media.Store
	Hasher identity.Hasher
	Policy *identity.PasswordPolicy
	Log    logrus.FieldLogger
}

type Server struct {
	cfg      *config.Config
	store    *store.Store
	media    *media.Store
	accounts forms.Accounts
	site     *admin.Site
	schemas  *schemas
	log      logrus.FieldLogger
}

func NewServer(cfg *config.Config, deps Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.Hasher == nil {
		deps.Hasher = identity.NewBcryptHasher(cfg.BcryptCost)
	}
	if deps.Policy == nil {
		deps.Policy = identity.NewPasswordPolicy(cfg.PasswordMinLength)
	}
	if deps.Media == nil {
		deps.Media = media.NewStore(cfg.MediaRoot)
	}

	sch, err := loadSchemas()
	if err != nil {
		panic(err)
	}

	s := &Server{
		cfg:   cfg,
		store: deps.Store,
		media: deps.Media,
		accounts: forms.Accounts{
			Users:  deps.Store,
			Policy: deps.Policy,
			Hasher: deps.Hasher,
		},
		site:    admin.NewSite(deps.Store),
		schemas: sch,
		log:     deps.Log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging(deps.Log))
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	v1 := r.Group("/v1")
	{
		v1.GET("/contacts", s.listContacts)
		v1.POST("/contacts", s.createContact)
		v1.GET("/contacts/:id", s.getContact)
		v1.PUT("/contacts/:id", s.updateContact)
		v1.DELETE("/contacts/:id", s.deleteContact)

		v1.POST("/auth/register", s.authRegister)
		v1.GET("/users/:id", s.getUser)
		v1.PUT("/users/:id", s.updateUser)
	}

	adm := r.Group("/admin")
	adm.Use(AdminOnly(cfg.AdminBearer))
	{
		adm.GET("/contacts", s.adminListContacts)
		adm.POST("/contacts", s.adminCreateContact)
		adm.PATCH("/contacts", s.adminEditList)
		adm.GET("/contacts/:id", s.adminGetContact)
		adm.PUT("/contacts/:id", s.adminUpdateContact)
		adm.DELETE("/contacts/:id", s.adminDeleteContact)

		adm.GET("/categories", s.adminListCategories)
		adm.POST("/categories", s.adminCreateCategory)
		adm.PUT("/categories/:id", s.adminUpdateCategory)
		adm.DELETE("/categories/:id", s.adminDeleteCategory)
	}

	r.Static("/media", cfg.MediaRoot)
	return r
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.cfg.ReqTimeoutSec <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), time.Duration(s.cfg.ReqTimeoutSec)*time.Second)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func queryPage(c *gin.Context) int {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// storeError writes the response for a failed store call.
func (s *Server) storeError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(404, gin.H{"error": what + " not found"})
	case errors.Is(err, store.ErrCategoryInUse):
		c.JSON(409, gin.H{"error": "category_in_use"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(504, gin.H{"error": "timeout"})
	default:
		s.log.WithError(err).WithField("path", c.FullPath()).Error("store failure")
		c.JSON(500, gin.H{"error": "internal_error"})
	}
}

func validationFailed(c *gin.Context, errs forms.Errors) {
	c.JSON(422, gin.H{"error": "validation_failed", "errors": errs})
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, PATCH, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func logging(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}
