package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Each migration carries its own snapshot of the tables it touches so that
// later model changes never rewrite history.

type schemaMigration struct {
	Name      string `gorm:"primaryKey;size:255"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	name string
	up   func(tx *gorm.DB) error
}

type category0001 struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (category0001) TableName() string { return "categories" }

type contact0001 struct {
	ID          uint      `gorm:"primaryKey"`
	FirstName   string    `gorm:"size:50;not null"`
	LastName    string    `gorm:"size:50;not null"`
	Phone       string    `gorm:"size:50;not null"`
	Email       string    `gorm:"size:254;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedDate time.Time `gorm:"not null"`
	CategoryID  uint      `gorm:"not null;index"`
}

func (contact0001) TableName() string { return "contacts" }

type user0001 struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;not null;index"`
	FirstName    string `gorm:"size:150;not null"`
	LastName     string `gorm:"size:150;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	IsStaff      bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

func (user0001) TableName() string { return "auth_users" }

type contact0002 struct {
	Picture string `gorm:"size:100;not null;default:''"`
	Show    bool   `gorm:"not null;default:true"`
}

func (contact0002) TableName() string { return "contacts" }

var migrations = []migration{
	{
		name: "0001_initial",
		up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&category0001{}, &contact0001{}, &user0001{})
		},
	},
	{
		name: "0002_contact_picture_contact_show",
		up: func(tx *gorm.DB) error {
			m := tx.Migrator()
			for _, field := range []string{"Picture", "Show"} {
				if m.HasColumn(&contact0002{}, field) {
					continue
				}
				if err := m.AddColumn(&contact0002{}, field); err != nil {
					return fmt.Errorf("add contacts.%s: %w", field, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies every migration not yet recorded in schema_migrations.
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	if db == nil {
		return fmt.Errorf("cannot migrate with nil DB connection")
	}
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("name = ?", m.name).Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", m.name, err)
		}
		if count > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Name: m.name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		if log != nil {
			log.WithField("migration", m.name).Info("migration applied")
		}
	}
	return nil
}

// Applied lists the recorded migration names in order of application.
func Applied(db *gorm.DB) ([]string, error) {
	var names []string
	err := db.Model(&schemaMigration{}).Order("applied_at, name").Pluck("name", &names).Error
	return names, err
}
