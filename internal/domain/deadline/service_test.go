package deadline_test

import (
	"context"
	"testing"

	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *deadline.Service {
	t.Helper()
	s := store.New[deadline.Deadline](store.NewMemoryByteStore(), store.Options[deadline.Deadline]{Key: "deadlines"})
	require.NoError(t, s.Load(context.Background()))
	return deadline.NewService(s, nil)
}

func TestDeadlineService_BoardAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, req := range []deadline.CreateRequest{
		{ClientID: "c1", Type: deadline.TypeVAT, Title: "TVA mai", DueDate: now.AddDate(0, 0, 10)},
		{ClientID: "c1", Type: deadline.TypeCNSS, Title: "CNSS mai", DueDate: now.AddDate(0, 0, -1)},
		{ClientID: "c2", Type: deadline.TypeVAT, Title: "TVA T2", DueDate: now.AddDate(0, 0, 5)},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	board := svc.Board(ctx, now, deadline.BoardOptions{})
	require.Len(t, board, 3)
	require.Equal(t, "CNSS mai", board[0].Deadline.Title)
	require.Equal(t, deadline.StatusOverdue, board[0].EffectiveStatus)
	require.Equal(t, deadline.LevelWarning, board[1].Urgency)
	require.Equal(t, deadline.LevelNormal, board[2].Urgency)
	require.Equal(t, deadline.StatusPending, board[0].Deadline.Status)

	stats := svc.Stats(ctx, now, deadline.BoardOptions{})
	require.Equal(t, deadline.Stats{Total: 3, Pending: 2, Overdue: 1}, stats)

	overdue := svc.Board(ctx, now, deadline.BoardOptions{Status: deadline.StatusOverdue})
	require.Len(t, overdue, 1)

	matrix := svc.Matrix(ctx, now, deadline.BoardOptions{})
	require.Len(t, matrix, 2)
	require.Equal(t, "c1", matrix[0].ClientID)
	require.Len(t, matrix[0].Cells[deadline.TypeVAT], 1)
	require.Len(t, matrix[0].Cells[deadline.TypeCNSS], 1)

	require.Equal(t, 2, svc.CountForClient("c1"))
}

func TestDeadlineService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d, err := svc.Create(ctx, deadline.CreateRequest{ClientID: "c1", Type: deadline.TypeAMO, Title: "AMO", DueDate: now.AddDate(0, 0, -3)})
	require.NoError(t, err)
	require.NotNil(t, d.Alerts)

	d.Status = deadline.StatusCompleted
	updated, err := svc.Update(ctx, *d)
	require.NoError(t, err)
	require.Equal(t, deadline.StatusCompleted, deadline.Annotate(*updated, now).EffectiveStatus)

	d.Status = "archived"
	_, err = svc.Update(ctx, *d)
	require.ErrorIs(t, err, deadline.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, d.ID))
	require.ErrorIs(t, svc.Delete(ctx, d.ID), deadline.ErrDeadlineNotFound)
}

func TestDeadlineService_CreateValidation(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), deadline.CreateRequest{ClientID: "c1", Type: "payroll", Title: "x", DueDate: now})
	require.ErrorIs(t, err, deadline.ErrInvalidInput)
}
