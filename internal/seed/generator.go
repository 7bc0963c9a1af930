// Package seed fills the database with generated demo contacts.
package seed

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"contact-agenda-go/internal/models"
)

const maxDescription = 100

// Generator builds unsaved contacts from fake profile data.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator seeds the faker; 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now}
}

// Contact returns a visible contact created sometime this year and filed
// under one of categories, picked at random.
func (g *Generator) Contact(categories []models.Category) models.Contact {
	f := g.faker
	now := g.now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	c := models.NewContact()
	c.FirstName = f.FirstName()
	c.LastName = f.LastName()
	c.Email = f.Email()
	c.Phone = f.Numerify("(###) ###-####")
	c.CreatedDate = f.DateRange(start, now)
	c.Description = truncate(f.Sentence(12), maxDescription)
	if len(categories) > 0 {
		cat := categories[f.Number(0, len(categories)-1)]
		c.CategoryID = cat.ID
	}
	return *c
}

// truncate cuts s to at most n runes, on a word boundary when possible.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;")
}
