package service

import (
	"context"
	"testing"
	"time"

	"chronogift/internal/models"
	"chronogift/internal/repository"
	"chronogift/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code, appErr.Error())
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type giftFixture struct {
	db     *gorm.DB
	svc    *GiftService
	audit  *testutil.AuditRepoStub
	clock  *fakeClock
	sender *models.User
	grace  *models.User
	mallet *models.User
}

func newGiftFixture(t *testing.T, strict bool) *giftFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	audit := &testutil.AuditRepoStub{}
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewGiftService(
		repository.NewGiftRepository(db),
		NewAuditService(audit, time.Second),
		testutil.FastHasher(),
		GiftServiceConfig{ShareBaseURL: "https://chronogift.example/", StrictReopen: strict, StoreTimeout: time.Second},
	)
	svc.SetClock(clock.Now)

	mk := func(sub, email, name string) *models.User {
		u := &models.User{GoogleID: sub, Email: email, Name: name}
		require.NoError(t, db.Create(u).Error)
		return u
	}
	return &giftFixture{
		db:     db,
		svc:    svc,
		audit:  audit,
		clock:  clock,
		sender: mk("sub-s", "sam@example.com", "Sam"),
		grace:  mk("sub-g", "grace@example.com", "Grace"),
		mallet: mk("sub-m", "mallet@example.com", "Mallet"),
	}
}

func (f *giftFixture) create(t *testing.T, unlockIn time.Duration, pass string) *models.GiftHandle {
	t.Helper()
	h, err := f.svc.Create(context.Background(), CreateGiftInput{
		Sender:         f.sender,
		RecipientEmail: "Grace@Example.com",
		UnlockInstant:  f.clock.Now().Add(unlockIn).Format(time.RFC3339),
		Passcode:       pass,
		Content:        models.GiftContent{TextMessage: "happy birthday", ImageURL: "https://img.example.com/cake.png"},
	})
	require.NoError(t, err)
	return h
}

func openerFor(u *models.User) Opener {
	id := u.ID
	return Opener{UserID: &id, Email: u.Email}
}
