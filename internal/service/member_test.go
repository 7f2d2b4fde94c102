package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/service"
)

func TestMemberService_Add(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	owner, err := store.Users.Create(ctx, domain.User{Email: "ana@example.com", DisplayName: "Ana"})
	require.NoError(t, err)
	friend, err := store.Users.Create(ctx, domain.User{Email: "bo@example.com", DisplayName: "Bo"})
	require.NoError(t, err)
	trip, err := service.NewTripService(store.Trips, store.Members).Create(ctx, validTrip(owner.ID))
	require.NoError(t, err)
	svc := service.NewMemberService(store.Trips, store.Users, store.Members)

	m, err := svc.Add(ctx, trip.ID, friend.ID, domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, m.Role)

	_, err = svc.Add(ctx, trip.ID, friend.ID, domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrConflict)

	members, err := svc.List(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
}

func TestMemberService_Add_Rejects(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	owner, err := store.Users.Create(ctx, domain.User{Email: "ana@example.com", DisplayName: "Ana"})
	require.NoError(t, err)
	trip, err := service.NewTripService(store.Trips, store.Members).Create(ctx, validTrip(owner.ID))
	require.NoError(t, err)
	svc := service.NewMemberService(store.Trips, store.Users, store.Members)

	_, err = svc.Add(ctx, trip.ID, owner.ID, domain.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrValidation, "owner role is reserved")

	_, err = svc.Add(ctx, trip.ID, owner.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(ctx, uuid.New(), owner.ID, domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown trip")

	_, err = svc.Add(ctx, trip.ID, uuid.New(), domain.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown user")
}

func TestMemberService_List_EmptyIsNotNil(t *testing.T) {
	svc := service.NewMemberService(nil, nil, &mockMemberRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.TripMember, error) { return nil, nil },
	})

	got, err := svc.List(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
}
