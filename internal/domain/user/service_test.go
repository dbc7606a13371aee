package user_test

import (
	"context"
	"testing"

	"github.com/rpggio/cabinet/internal/domain/user"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := store.New[user.User](store.NewMemoryByteStore(), store.Options[user.User]{Key: "users"})
	require.NoError(t, s.Load(ctx))
	svc := user.NewService(s, nil)

	u, err := svc.Create(ctx, user.CreateRequest{
		Email:     "ahmed.bennani@cabinet.ma",
		FirstName: "Ahmed",
		LastName:  "Bennani",
		Role:      user.RoleManager,
	})
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.Equal(t, "Ahmed Bennani", svc.DisplayName(u.ID))
	require.Equal(t, user.UnassignedName, svc.DisplayName("missing"))

	_, err = svc.Create(ctx, user.CreateRequest{Email: "x@y", Role: "owner"})
	require.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUser_FlagChecks(t *testing.T) {
	admin := user.User{ID: "a", Role: user.RoleAdmin}
	manager := user.User{ID: "m", Role: user.RoleManager}
	collab := user.User{ID: "c", Role: user.RoleCollaborator}
	qc := user.User{ID: "q", Role: user.RoleQualityControl}

	require.True(t, admin.CanCompleteMission("other"))
	require.True(t, manager.CanCompleteMission("other"))
	require.False(t, collab.CanCompleteMission("other"))
	require.True(t, collab.CanCompleteMission("c"))
	require.False(t, collab.CanCompleteMission(""))

	require.True(t, admin.CanReopenMission())
	require.True(t, manager.CanReopenMission())
	require.False(t, collab.CanReopenMission())

	require.True(t, qc.CanReviewTime())
	require.False(t, collab.CanReviewTime())
}

func TestUser_FullName(t *testing.T) {
	require.Equal(t, "Fatima", user.User{FirstName: "Fatima"}.FullName())
	require.Equal(t, "Alami", user.User{LastName: "Alami"}.FullName())
}
