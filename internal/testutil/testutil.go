// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chronogift/internal/config"
	"chronogift/internal/database"
	"chronogift/internal/models"
	"chronogift/internal/passcode"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a migrated in-memory database that lives for the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, "sqlite"))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FastHasher hashes passcodes with minimal argon2id cost.
func FastHasher() *passcode.Hasher {
	return passcode.NewHasher(passcode.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

// ErrAuditDown is returned by AuditRepoStub when Fail is set.
var ErrAuditDown = errors.New("audit store down")

// AuditRepoStub is an in-memory audit repository.
type AuditRepoStub struct {
	mu      sync.Mutex
	Records []models.AuditRecord
	Fail    bool
}

// Append stores rec unless Fail is set.
func (s *AuditRepoStub) Append(_ context.Context, rec *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return models.NewInternalError(ErrAuditDown)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.Records = append(s.Records, *rec)
	return nil
}

// ListByGift returns the records for giftID in insertion order.
func (s *AuditRepoStub) ListByGift(_ context.Context, giftID string) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditRecord
	for _, r := range s.Records {
		if r.GiftID == giftID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListForUser returns records where userID is the sender or the actor, newest first.
func (s *AuditRepoStub) ListForUser(_ context.Context, userID uint, limit, offset int) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditRecord
	for i := len(s.Records) - 1; i >= 0; i-- {
		r := s.Records[i]
		if r.SenderID == userID || (r.ActorUserID != nil && *r.ActorUserID == userID) {
			out = append(out, r)
		}
	}
	return page(out, limit, offset), nil
}

// ListAll returns every record, newest first.
func (s *AuditRepoStub) ListAll(_ context.Context, limit, offset int) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditRecord, 0, len(s.Records))
	for i := len(s.Records) - 1; i >= 0; i-- {
		out = append(out, s.Records[i])
	}
	return page(out, limit, offset), nil
}

// Events returns the recorded events for giftID.
func (s *AuditRepoStub) Events(giftID string) []models.AuditEvent {
	recs, _ := s.ListByGift(context.Background(), giftID)
	events := make([]models.AuditEvent, 0, len(recs))
	for _, r := range recs {
		events = append(events, r.Event)
	}
	return events
}

func page(recs []models.AuditRecord, limit, offset int) []models.AuditRecord {
	if offset >= len(recs) {
		return nil
	}
	recs = recs[offset:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs
}
