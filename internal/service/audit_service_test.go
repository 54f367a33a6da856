package service

import (
	"context"
	"testing"
	"time"

	"chronogift/internal/models"
	"chronogift/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordIsBestEffort(t *testing.T) {
	repo := &testutil.AuditRepoStub{Fail: true}
	svc := NewAuditService(repo, time.Second)

	gift := &models.Gift{ID: "g-1", SenderID: 1, RecipientEmail: "grace@example.com"}
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), gift, models.AuditEventOpened, nil, "grace@example.com", time.Now())
	})
	assert.Empty(t, repo.Records)
}

func TestAuditService_ListForUser(t *testing.T) {
	repo := &testutil.AuditRepoStub{}
	svc := NewAuditService(repo, time.Second)
	ctx := context.Background()

	sender, opener, stranger := uint(1), uint(2), uint(3)
	g1 := &models.Gift{ID: "g-1", SenderID: sender, RecipientEmail: "grace@example.com", TextMessage: "hi"}
	g2 := &models.Gift{ID: "g-2", SenderID: stranger, RecipientEmail: "x@example.com"}

	now := time.Now()
	svc.Record(ctx, g1, models.AuditEventCreated, &sender, "sam@example.com", now)
	svc.Record(ctx, g1, models.AuditEventOpened, &opener, "grace@example.com", now.Add(time.Second))
	svc.Record(ctx, g2, models.AuditEventCreated, &stranger, "x@example.com", now)

	recs, err := svc.ListForUser(ctx, sender, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = svc.ListForUser(ctx, opener, "g-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.AuditEventOpened, recs[0].Event)
	assert.Equal(t, "hi", recs[0].Snapshot.Data().TextMessage)

	recs, err = svc.ListForUser(ctx, opener, "g-2", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)

	all, err := svc.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byGift, err := svc.ListByGift(ctx, "g-1")
	require.NoError(t, err)
	assert.Len(t, byGift, 2)
}
