package client_test

import (
	"context"
	"testing"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/repository/mocks"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type countStub map[string]int

func (c countStub) CountForClient(id string) int { return c[id] }

func newStore(t *testing.T) *store.EntityStore[client.Client] {
	t.Helper()
	s := store.New[client.Client](store.NewMemoryByteStore(), store.Options[client.Client]{Key: "clients"})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestClientService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(newStore(t), nil, nil, nil)

	c, err := svc.Create(ctx, client.CreateRequest{CompanyName: "  TechnoMaroc SARL "})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "TechnoMaroc SARL", c.CompanyName)
	require.Equal(t, client.VATRegimeNormal, c.VATRegime)
	require.Equal(t, client.CurrencyMAD, c.Currency)
	require.True(t, c.IsActive)
	require.NotNil(t, c.Contacts)

	_, err = svc.Create(ctx, client.CreateRequest{})
	require.ErrorIs(t, err, client.ErrInvalidInput)
}

func TestClientService_DeleteBlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	deps := map[string]client.Dependent{"missions": countStub{}}
	recorder := &mocks.ActivityRecorder{}
	svc := client.NewService(newStore(t), deps, recorder, nil)

	c, err := svc.Create(ctx, client.CreateRequest{CompanyName: "Atlas Trading"})
	require.NoError(t, err)
	deps["missions"] = countStub{c.ID: 2}

	recorder.On("Record", ctx, activity.TypeClientDeleted, "1", c.ID, "Atlas Trading (forced, missions=2)").Once()

	err = svc.Delete(ctx, c.ID, "1", false)
	require.ErrorIs(t, err, client.ErrClientInUse)
	var inUse *client.InUseError
	require.ErrorAs(t, err, &inUse)
	require.Equal(t, 2, inUse.References["missions"])
	require.Equal(t, "Atlas Trading", svc.DisplayName(c.ID))

	require.NoError(t, svc.Delete(ctx, c.ID, "1", true))
	require.Equal(t, client.UnknownName, svc.DisplayName(c.ID))
	require.ErrorIs(t, svc.Delete(ctx, c.ID, "1", true), client.ErrClientNotFound)
	recorder.AssertExpectations(t)
}

func TestClientService_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(newStore(t), nil, nil, nil)

	c, err := svc.Create(ctx, client.CreateRequest{CompanyName: "Sahara Logistics"})
	require.NoError(t, err)

	changed := *c
	changed.CreatedAt = changed.CreatedAt.AddDate(-1, 0, 0)
	changed.IsFreeZone = true
	updated, err := svc.Update(ctx, changed)
	require.NoError(t, err)
	require.True(t, updated.CreatedAt.Equal(c.CreatedAt))
	require.True(t, updated.IsFreeZone)

	_, err = svc.Update(ctx, client.Client{ID: "nope", CompanyName: "x"})
	require.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestClientService_ListActiveOnly(t *testing.T) {
	repo := &mocks.EntityStore[client.Client]{}
	repo.On("List").Return([]client.Client{
		{ID: "a", CompanyName: "A", IsActive: true},
		{ID: "b", CompanyName: "B"},
	})
	svc := client.NewService(repo, nil, nil, nil)

	require.Len(t, svc.List(context.Background(), false), 2)
	active := svc.List(context.Background(), true)
	require.Len(t, active, 1)
	require.Equal(t, "a", active[0].ID)
}

func TestClientService_CreateSurfacesPersistenceWarning(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntityStore[client.Client]{}
	repo.On("Create", ctx, mock.AnythingOfType("client.Client")).Return(store.ErrPersistence)
	svc := client.NewService(repo, nil, nil, nil)

	c, err := svc.Create(ctx, client.CreateRequest{CompanyName: "Offline Co"})
	require.ErrorIs(t, err, store.ErrPersistence)
	require.NotNil(t, c)
}

func TestClient_PrimaryContact(t *testing.T) {
	c := client.Client{Contacts: []client.Contact{{FirstName: "A"}, {FirstName: "B", IsPrimary: true}}}
	p, ok := c.PrimaryContact()
	require.True(t, ok)
	require.Equal(t, "B", p.FirstName)

	_, ok = client.Client{}.PrimaryContact()
	require.False(t, ok)
}
