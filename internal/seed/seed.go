// Package seed creates demo users and gifts for development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chronogift/internal/middleware"
	"chronogift/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPasscode unlocks every seeded gift.
const DefaultPasscode = "open-sesame"

// Options controls how much data a seed run writes.
type Options struct {
	Users        int
	GiftsPerUser int
	// OpenedRatio is the share of past-due gifts that are marked opened.
	OpenedRatio float64
	Passcode    string
	// Seed makes the generated data reproducible; 0 picks a random seed.
	Seed   int64
	DryRun bool
}

// Hasher hashes seeded passcodes.
type Hasher interface {
	Hash(passcode string) (string, error)
}

// Summary reports what a seed run wrote.
type Summary struct {
	Users        int
	Gifts        int
	Opened       int
	AuditRecords int
}

// Factory builds users and gifts and persists them.
type Factory struct {
	db     *gorm.DB
	hasher Hasher
	faker  *gofakeit.Faker
	opts   Options
	now    time.Time
	hashed string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory returns a factory writing to db.
func NewFactory(db *gorm.DB, hasher Hasher, opts Options) *Factory {
	if opts.Passcode == "" {
		opts.Passcode = DefaultPasscode
	}
	return &Factory{
		db:     db,
		hasher: hasher,
		faker:  gofakeit.New(opts.Seed),
		opts:   opts,
		now:    time.Now().UTC(),
		nextID: 1000,
	}
}

// CreateUser persists a user with a fake Google identity.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		GoogleID: fmt.Sprintf("seed-%d", f.faker.Number(100000000, 999999999)),
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%d@%s", first, last, f.faker.Number(10, 99), f.faker.DomainName())),
		Name:     first + " " + last,
		Picture:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return user, nil
}

// CreateGift persists a gift from sender to recipient together with its
// CREATED audit record. A non-nil openedBy opens it as well.
func (f *Factory) CreateGift(ctx context.Context, sender, recipient *models.User, unlockAt time.Time, openedBy *models.User) (*models.Gift, int, error) {
	hash, err := f.passcodeHash()
	if err != nil {
		return nil, 0, err
	}

	createdAt := f.now.Add(-time.Duration(f.faker.Number(1, 72)) * time.Hour)
	if unlockAt.Before(createdAt) {
		createdAt = unlockAt.Add(-time.Hour)
	}

	gift := &models.Gift{
		SenderID:       sender.ID,
		RecipientEmail: recipient.Email,
		TextMessage:    f.faker.Sentence(12),
		UnlockAt:       unlockAt.UTC(),
		PasscodeHash:   hash,
		CreatedAt:      createdAt,
	}
	if f.faker.Bool() {
		gift.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	records := []*models.AuditRecord{
		models.NewAuditRecord(gift, models.AuditEventCreated, &sender.ID, sender.Email, createdAt),
	}
	if openedBy != nil {
		openedAt := unlockAt.Add(time.Duration(f.faker.Number(1, 600)) * time.Minute)
		if openedAt.After(f.now) {
			openedAt = f.now
		}
		gift.Opened = true
		gift.OpenedAt = &openedAt
		gift.RecipientUserID = &openedBy.ID
		records = append(records,
			models.NewAuditRecord(gift, models.AuditEventOpened, &openedBy.ID, openedBy.Email, openedAt))
	}

	if f.opts.DryRun {
		gift.ID = f.faker.UUID()
		return gift, len(records), nil
	}

	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gift).Error; err != nil {
			return err
		}
		for _, rec := range records {
			rec.GiftID = gift.ID
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create gift for %s: %w", recipient.Email, err)
	}
	return gift, len(records), nil
}

// passcodeHash hashes the shared passcode once per factory.
func (f *Factory) passcodeHash() (string, error) {
	if f.hashed != "" {
		return f.hashed, nil
	}
	hash, err := f.hasher.Hash(f.opts.Passcode)
	if err != nil {
		return "", fmt.Errorf("hash passcode: %w", err)
	}
	f.hashed = hash
	return hash, nil
}

// Run creates opts.Users users, each sending opts.GiftsPerUser gifts to
// other seeded users. Unlock instants spread from a week ago to a month
// ahead; a share of the past-due gifts is opened by their recipient.
func Run(ctx context.Context, db *gorm.DB, hasher Hasher, opts Options) (*Summary, error) {
	if opts.Users < 2 {
		return nil, fmt.Errorf("at least 2 users are required, got %d", opts.Users)
	}
	f := NewFactory(db, hasher, opts)
	summary := &Summary{}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return summary, err
		}
		users = append(users, u)
		summary.Users++
	}

	for i, sender := range users {
		for j := 0; j < opts.GiftsPerUser; j++ {
			recipient := users[(i+1+f.faker.Number(0, len(users)-2))%len(users)]
			unlockAt := f.now.Add(time.Duration(f.faker.Number(-7*24, 30*24)) * time.Hour)

			var openedBy *models.User
			if unlockAt.Before(f.now) && f.faker.Float64() < opts.OpenedRatio {
				openedBy = recipient
			}

			_, written, err := f.CreateGift(ctx, sender, recipient, unlockAt, openedBy)
			if err != nil {
				return summary, err
			}
			summary.Gifts++
			summary.AuditRecords += written
			if openedBy != nil {
				summary.Opened++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", summary.Users),
		slog.Int("gifts", summary.Gifts),
		slog.Int("opened", summary.Opened),
		slog.Bool("dry_run", opts.DryRun),
	)
	return summary, nil
}
