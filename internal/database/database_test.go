package database

import (
	"context"
	"testing"
	"time"

	"chronogift/internal/config"
	"chronogift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrate_SQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, "sqlite"))

	version, err := SchemaVersion(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.EqualValues(t, 3, version)

	for _, table := range []string{"users", "gifts", "gift_transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// re-running is a no-op
	require.NoError(t, Migrate(ctx, db, "sqlite"))

	sender := models.User{GoogleID: "sub-1", Email: "ada@example.com", Name: "Ada"}
	require.NoError(t, db.Create(&sender).Error)

	gift := models.Gift{
		SenderID:       sender.ID,
		RecipientEmail: "grace@example.com",
		TextMessage:    "hello",
		UnlockAt:       time.Now().UTC().Add(time.Hour),
		PasscodeHash:   "$argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, db.Create(&gift).Error)
	assert.Len(t, gift.ID, 36)

	rec := models.NewAuditRecord(&gift, models.AuditEventCreated, &sender.ID, sender.Email, time.Now())
	require.NoError(t, db.Create(rec).Error)
	assert.Len(t, rec.ID, 27)

	var stored models.AuditRecord
	require.NoError(t, db.First(&stored, "id = ?", rec.ID).Error)
	assert.Equal(t, "hello", stored.Snapshot.Data().TextMessage)

	err = db.Model(&models.AuditRecord{}).Where("id = ?", rec.ID).Update("event", models.AuditEventOpened).Error
	assert.Error(t, err, "audit rows must be immutable")
	err = db.Where("id = ?", rec.ID).Delete(&models.AuditRecord{}).Error
	assert.Error(t, err, "audit rows must not be deletable")

	dup := models.User{GoogleID: "sub-1", Email: "other@example.com"}
	assert.Error(t, db.Create(&dup).Error, "google_id is unique")
}

func TestMigrateDown_SQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, "sqlite"))
	require.NoError(t, MigrateDown(ctx, db, "sqlite"))

	version, err := SchemaVersion(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
	assert.False(t, db.Migrator().HasTable("gift_transactions"))
}

func TestAutoMigrate_SQLite(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, AutoMigrate(context.Background(), db))

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestMigrationTarget(t *testing.T) {
	dialect, dir, err := migrationTarget("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialect)
	assert.Equal(t, "migrations/postgres", dir)

	_, _, err = migrationTarget("oracle")
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
