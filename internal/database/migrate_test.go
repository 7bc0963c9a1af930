package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contact-agenda-go/internal/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, nil))

	m := db.Migrator()
	assert.True(t, m.HasTable(&models.Category{}))
	assert.True(t, m.HasTable(&models.Contact{}))
	assert.True(t, m.HasTable(&models.User{}))
	assert.True(t, m.HasColumn(&models.Contact{}, "Picture"))
	assert.True(t, m.HasColumn(&models.Contact{}, "Show"))

	names, err := Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_initial", "0002_contact_picture_contact_show"}, names)
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	names, err := Applied(db)
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestShowDefaultsTrueForExistingRows(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.Migrator().CreateTable(&category0001{}, &contact0001{}, &user0001{}))
	require.NoError(t, db.AutoMigrate(&schemaMigration{}))
	require.NoError(t, db.Create(&schemaMigration{Name: "0001_initial"}).Error)

	require.NoError(t, db.Create(&category0001{Name: "Friends"}).Error)
	require.NoError(t, db.Create(&contact0001{FirstName: "Ana", LastName: "Lima", CategoryID: 1}).Error)

	require.NoError(t, Migrate(db, nil))

	var c models.Contact
	require.NoError(t, db.First(&c).Error)
	assert.True(t, c.Show)
	assert.Empty(t, c.Picture)
}

func TestMigrateNilDB(t *testing.T) {
	assert.Error(t, Migrate(nil, nil))
}
