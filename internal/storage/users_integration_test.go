package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:  "successful create",
			user:  GetTestUser(),
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name:    "duplicate username",
			user:    GetTestUser(),
			wantErr: models.ErrDuplicateIdentity,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "bob", "70009999", "70009999")
			},
		},
		{
			name:    "duplicate phone",
			user:    GetTestUser(),
			wantErr: models.ErrDuplicateIdentity,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "alice", "70000001", "70111111")
			},
		},
		{
			name: "same orange money is allowed",
			user: GetTestUser(),
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "alice", "70000002", "70123456")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			id, err := storage.CreateUser(context.Background(), tt.user)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, id)

			got, err := storage.GetUserByUsername(context.Background(), tt.user.Username)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.False(t, got.IsSubscribed)
			assert.Nil(t, got.SubscribeDate)
		})
	}
}

func TestStorage_GetUserByUsername_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.GetUserByUsername(context.Background(), "nobody")
	assert.Nil(t, got)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_GetUserByOrangeMoney(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	firstID := factory.CreateUser(t, "first", "70000001", "70123456")
	factory.CreateUser(t, "second", "70000002", "70123456")

	got, err := storage.GetUserByOrangeMoney(context.Background(), "70123456")
	require.NoError(t, err)
	assert.Equal(t, firstID, got.ID)

	_, err = storage.GetUserByOrangeMoney(context.Background(), "070123456")
	require.ErrorIs(t, err, models.ErrNotFound, "lookup must not normalize leading zeros")
}

func TestStorage_ActivateAndExpire(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	id := factory.CreateUser(t, "bob", "70000001", "70123456")

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, storage.ActivateSubscription(ctx, id, at))

	got, err := storage.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)
	require.NotNil(t, got.SubscribeDate)
	assert.True(t, at.Equal(*got.SubscribeDate))

	require.NoError(t, storage.ExpireSubscription(ctx, id))

	got, err = storage.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)
	require.NotNil(t, got.SubscribeDate, "expiry keeps the last activation date")
	assert.True(t, at.Equal(*got.SubscribeDate))

	require.ErrorIs(t, storage.ActivateSubscription(ctx, id+100, at), models.ErrNotFound)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	empty, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice", "70000001", "70111111")
	factory.CreateSubscribedUser(t, "bob", "70000002", "70222222", time.Now().UTC())

	got, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob", got[1].Username)
	assert.True(t, got[1].IsSubscribed)
}

func TestStorage_CanceledContext(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, context.Canceled)
}
