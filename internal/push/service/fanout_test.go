package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aarvi-backend/internal/push/domain"
	"aarvi-backend/internal/push/repository"
	"aarvi-backend/pkg/fcm"
)

type fakePusher struct {
	lastTokens []string
	failed     []string
	gone       []string
	err        error
}

func (p *fakePusher) SendToDevices(_ context.Context, tokens []string, _ fcm.NotificationData) ([]string, []string, error) {
	p.lastTokens = tokens
	return p.failed, p.gone, p.err
}

func setupTest(t *testing.T) repository.SubscriptionRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.DeviceSubscription{}))
	return repository.NewSubscriptionRepository(db)
}

func TestNotifyNoSubscriptions(t *testing.T) {
	subs := setupTest(t)
	pusher := &fakePusher{}
	f := NewFanout(subs, pusher)

	sent, err := f.Notify(context.Background(), "u1", "hi", "body", "/chat")
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Nil(t, pusher.lastTokens, "gateway must not be hit without subscriptions")
}

func TestNotifyFansOutToAllDevices(t *testing.T) {
	subs := setupTest(t)
	require.NoError(t, subs.Save("u1", "tok-a", "phone"))
	require.NoError(t, subs.Save("u1", "tok-b", "laptop"))
	require.NoError(t, subs.Save("u2", "tok-c", "phone"))

	pusher := &fakePusher{}
	f := NewFanout(subs, pusher)

	sent, err := f.Notify(context.Background(), "u1", "hi", "body", "/chat")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{"tok-a", "tok-b"}, pusher.lastTokens)
}

func TestNotifyPrunesGoneTokens(t *testing.T) {
	subs := setupTest(t)
	require.NoError(t, subs.Save("u1", "tok-live", "phone"))
	require.NoError(t, subs.Save("u1", "tok-dead", "old phone"))

	pusher := &fakePusher{gone: []string{"tok-dead"}}
	f := NewFanout(subs, pusher)

	sent, err := f.Notify(context.Background(), "u1", "hi", "body", "/chat")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	remaining, err := subs.GetByUserID("u1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tok-live", remaining[0].Token)
}

func TestNotifyCountsTransientFailures(t *testing.T) {
	subs := setupTest(t)
	require.NoError(t, subs.Save("u1", "tok-a", "phone"))
	require.NoError(t, subs.Save("u1", "tok-b", "laptop"))

	pusher := &fakePusher{failed: []string{"tok-b"}}
	f := NewFanout(subs, pusher)

	sent, err := f.Notify(context.Background(), "u1", "hi", "body", "/chat")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Transient failures are not pruned.
	remaining, err := subs.GetByUserID("u1")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestNotifyGatewayError(t *testing.T) {
	subs := setupTest(t)
	require.NoError(t, subs.Save("u1", "tok-a", "phone"))

	pusher := &fakePusher{err: errors.New("gateway unreachable")}
	f := NewFanout(subs, pusher)

	_, err := f.Notify(context.Background(), "u1", "hi", "body", "/chat")
	assert.Error(t, err)
}

func TestSaveUpsertsByToken(t *testing.T) {
	subs := setupTest(t)
	require.NoError(t, subs.Save("u1", "tok-a", "phone"))
	require.NoError(t, subs.Save("u1", "tok-a", "phone v2"))

	remaining, err := subs.GetByUserID("u1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "phone v2", remaining[0].DeviceInfo)
}
