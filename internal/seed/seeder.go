package seed

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"contact-agenda-go/internal/models"
)

// DefaultCategories are created on every run unless they already exist.
var DefaultCategories = []string{"Amigo(a)", "Família", "Colega"}

type Store interface {
	EnsureCategories(ctx context.Context, names []string) ([]models.Category, error)
	BulkCreateContacts(ctx context.Context, contacts []models.Contact, batchSize int) error
}

type Seeder struct {
	store     Store
	gen       *Generator
	log       logrus.FieldLogger
	BatchSize int
}

func NewSeeder(s Store, gen *Generator, log logrus.FieldLogger) *Seeder {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Seeder{store: s, gen: gen, log: log, BatchSize: 500}
}

// Run makes sure the default categories exist and inserts n generated
// contacts in one batch. Either all n are written or none.
func (s *Seeder) Run(ctx context.Context, n int) (int, error) {
	if s.gen == nil {
		return 0, errors.New("seed: generator is nil")
	}
	cats, err := s.store.EnsureCategories(ctx, DefaultCategories)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		s.log.Info("no contacts requested")
		return 0, nil
	}

	contacts := make([]models.Contact, 0, n)
	for i := 0; i < n; i++ {
		contacts = append(contacts, s.gen.Contact(cats))
	}
	if err := s.store.BulkCreateContacts(ctx, contacts, s.BatchSize); err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"contacts":   n,
		"categories": len(cats),
	}).Info("seeded contacts")
	return n, nil
}
