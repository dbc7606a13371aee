package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cabinet/internal/app"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/mcp"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBuild_SeedsEveryCollection(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()

	a, err := app.Build(ctx, bytes, app.Options{})
	require.NoError(t, err)

	keys, err := bytes.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		app.KeyClients, app.KeyUsers, app.KeyMissions, app.KeyTimeEntries, app.KeyDeadlines,
		app.KeyInvoices, app.KeyQuotes, app.KeyCreditNotes, app.KeyActivity,
	}, keys)

	require.Len(t, a.Users.List(ctx), 3)
	require.Len(t, a.Clients.List(ctx, false), 2)
	require.Len(t, a.Deadlines.Board(ctx, time.Now(), deadline.BoardOptions{}), 5)
}

func TestBuild_ReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()

	first, err := app.Build(ctx, bytes, app.Options{})
	require.NoError(t, err)
	created, err := first.Clients.Create(ctx, client.CreateRequest{CompanyName: "Sahara Conseil"})
	require.NoError(t, err)

	second, err := app.Build(ctx, bytes, app.Options{})
	require.NoError(t, err)
	got, err := second.Clients.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Sahara Conseil", got.CompanyName)
	require.Len(t, second.Clients.List(ctx, false), 3)
}

func TestBuild_ClientDeleteGuardSeesEveryCollection(t *testing.T) {
	ctx := context.Background()
	a, err := app.Build(ctx, store.NewMemoryByteStore(), app.Options{})
	require.NoError(t, err)

	err = a.Clients.Delete(ctx, "1", "1", false)
	var inUse *client.InUseError
	require.True(t, errors.As(err, &inUse))
	require.Equal(t, 1, inUse.References[app.KeyMissions])
	require.Equal(t, 1, inUse.References[app.KeyTimeEntries])
	require.Equal(t, 3, inUse.References[app.KeyDeadlines])
	require.Equal(t, 1, inUse.References["documents"])

	require.NoError(t, a.Clients.Delete(ctx, "1", "1", true))
	require.Equal(t, client.UnknownName, a.Clients.DisplayName("1"))
}

func TestReset_ReseedsDefaults(t *testing.T) {
	ctx := context.Background()
	bytes := store.NewMemoryByteStore()
	a, err := app.Build(ctx, bytes, app.Options{})
	require.NoError(t, err)
	_, err = a.Clients.Create(ctx, client.CreateRequest{CompanyName: "Temporaire"})
	require.NoError(t, err)
	_, err = bytes.Put(ctx, "other", []byte(`{}`), 0)
	require.NoError(t, err)

	deleted, err := app.Reset(ctx, bytes)
	require.NoError(t, err)
	require.ElementsMatch(t, app.Keys, deleted)

	keys, err := bytes.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"other"}, keys)

	again, err := app.Build(ctx, bytes, app.Options{})
	require.NoError(t, err)
	require.Len(t, again.Clients.List(ctx, false), len(a.Clients.List(ctx, false))-1)
}

func TestBuild_DefaultVATRateFromOptions(t *testing.T) {
	ctx := context.Background()
	a, err := app.Build(ctx, store.NewMemoryByteStore(), app.Options{
		Billing: billing.Config{DefaultVATRate: 14},
	})
	require.NoError(t, err)
	require.InDelta(t, 14, a.Billing.DefaultVATRate(), 1e-9)
}

type toolClient struct {
	t       *testing.T
	session *sdkmcp.ClientSession
}

func connect(t *testing.T, clock *fakeClock) *toolClient {
	t.Helper()
	ctx := context.Background()

	a, err := app.Build(ctx, store.NewMemoryByteStore(), app.Options{
		Billing: billing.Config{DefaultVATRate: 20},
		Clock:   clock.Now,
	})
	require.NoError(t, err)

	server := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		TransportMode: "stdio",
		Clock:         clock.Now,
	})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &toolClient{t: t, session: session}
}

func (c *toolClient) call(name string, args map[string]any) *sdkmcp.CallToolResult {
	c.t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := c.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(c.t, err)
	require.NotEmpty(c.t, res.Content)
	return res
}

func (c *toolClient) ok(name string, args map[string]any, out any) {
	c.t.Helper()
	res := c.call(name, args)
	require.False(c.t, res.IsError, "%s: %s", name, textOf(c.t, res))
	require.NoError(c.t, json.Unmarshal([]byte(textOf(c.t, res)), out))
}

func (c *toolClient) fail(name string, args map[string]any) mcp.APIError {
	c.t.Helper()
	res := c.call(name, args)
	require.True(c.t, res.IsError, "%s should fail", name)
	var apiErr mcp.APIError
	require.NoError(c.t, json.Unmarshal([]byte(textOf(c.t, res)), &apiErr))
	return apiErr
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_ListsCatalog(t *testing.T) {
	c := connect(t, &fakeClock{now: time.Now()})
	res, err := c.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"list_clients", "get_client", "create_client", "update_client", "delete_client",
		"list_missions", "get_mission", "create_mission", "update_mission", "mission_progress",
		"complete_mission", "reopen_mission", "complete_task",
		"timer_start", "timer_pause", "timer_resume", "timer_stop", "timer_discard", "timer_status",
		"list_time_entries", "submit_time_entry", "review_time_entry",
		"deadline_board", "create_deadline", "update_deadline",
		"save_invoice", "save_quote", "save_credit_note", "compute_totals", "list_invoices",
		"recent_activity", "list_users",
	} {
		require.True(t, names[name], name)
	}
}

func TestTools_TimerSessionRecordsTimeOnMission(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)}
	c := connect(t, clock)

	var status struct {
		Session struct {
			State string `json:"state"`
		} `json:"session"`
		ElapsedSeconds int64 `json:"elapsed_seconds"`
	}
	c.ok("timer_start", map[string]any{"user_id": "3", "client_id": "1", "mission_id": "1", "task_id": "2"}, &status)
	require.Equal(t, "running", status.Session.State)
	require.Zero(t, status.ElapsedSeconds)

	apiErr := c.fail("timer_start", map[string]any{"user_id": "3", "mission_id": "2"})
	require.Equal(t, "TIMER_CONFLICT", apiErr.Code)

	clock.Advance(30 * time.Minute)
	c.ok("timer_pause", nil, &status)
	require.Equal(t, "paused", status.Session.State)
	require.Equal(t, int64(1800), status.ElapsedSeconds)

	clock.Advance(10 * time.Minute)
	c.ok("timer_status", nil, &status)
	require.Equal(t, int64(1800), status.ElapsedSeconds)

	c.ok("timer_resume", nil, &status)
	clock.Advance(15 * time.Minute)

	var stopped struct {
		Entry struct {
			ID            string `json:"id"`
			Duration      int    `json:"duration"`
			BreakDuration int    `json:"break_duration"`
			Status        string `json:"status"`
		} `json:"entry"`
		Mission struct {
			ConsumedHours float64 `json:"consumed_hours"`
		} `json:"mission"`
		Warnings []string `json:"warnings"`
	}
	c.ok("timer_stop", nil, &stopped)
	require.NotEmpty(t, stopped.Entry.ID)
	require.Equal(t, 45, stopped.Entry.Duration)
	require.Equal(t, 10, stopped.Entry.BreakDuration)
	require.Equal(t, "draft", stopped.Entry.Status)
	require.InDelta(t, 0.75, stopped.Mission.ConsumedHours, 1e-9)
	require.Empty(t, stopped.Warnings)

	c.ok("timer_status", nil, &status)
	require.Equal(t, "idle", status.Session.State)

	var entries struct {
		Entries      []json.RawMessage `json:"entries"`
		TotalMinutes int               `json:"total_minutes"`
	}
	c.ok("list_time_entries", map[string]any{"mission_id": "1"}, &entries)
	require.Len(t, entries.Entries, 2)
	require.Equal(t, 210+45, entries.TotalMinutes)

	var reviewed struct {
		Entry struct {
			Status string `json:"status"`
		} `json:"entry"`
	}
	apiErr = c.fail("review_time_entry", map[string]any{"id": stopped.Entry.ID, "actor_id": "2", "approve": true})
	require.Equal(t, "INVALID_TRANSITION", apiErr.Code)
	c.ok("submit_time_entry", map[string]any{"id": stopped.Entry.ID, "actor_id": "3"}, &reviewed)
	require.Equal(t, "submitted", reviewed.Entry.Status)
	apiErr = c.fail("review_time_entry", map[string]any{"id": stopped.Entry.ID, "actor_id": "3", "approve": true})
	require.Equal(t, "FORBIDDEN", apiErr.Code)
	c.ok("review_time_entry", map[string]any{"id": stopped.Entry.ID, "actor_id": "2", "approve": true}, &reviewed)
	require.Equal(t, "approved", reviewed.Entry.Status)
}

func TestTools_MissionLifecycle(t *testing.T) {
	c := connect(t, &fakeClock{now: time.Now()})

	var progress mcp.MissionProgressResponse
	c.ok("mission_progress", map[string]any{"id": "2"}, &progress)
	require.InDelta(t, 87.5, progress.Percent, 1e-9)
	require.False(t, progress.OverBudget)
	require.Empty(t, progress.Checklists)

	c.ok("mission_progress", map[string]any{"id": "1"}, &progress)
	require.Equal(t, []mcp.ChecklistStatus{{TaskID: "1", Title: "Collecte des factures", Percent: 100}}, progress.Checklists)

	apiErr := c.fail("complete_mission", map[string]any{"id": "1", "actor_id": "2"})
	require.Equal(t, "INCOMPLETE_TASKS", apiErr.Code)

	apiErr = c.fail("complete_mission", map[string]any{"id": "1", "actor_id": "3"})
	require.Equal(t, "FORBIDDEN", apiErr.Code)

	var task struct {
		SuggestComplete bool `json:"suggest_complete"`
	}
	c.ok("complete_task", map[string]any{"mission_id": "1", "task_id": "2", "actor_id": "3"}, &task)
	require.True(t, task.SuggestComplete)

	var resp struct {
		Mission struct {
			Status  string     `json:"status"`
			DateFin *time.Time `json:"date_fin"`
			History []struct {
				Action string `json:"action"`
			} `json:"history"`
		} `json:"mission"`
	}
	c.ok("complete_mission", map[string]any{"id": "1", "actor_id": "2"}, &resp)
	require.Equal(t, "completed", resp.Mission.Status)
	require.NotNil(t, resp.Mission.DateFin)

	apiErr = c.fail("update_mission", map[string]any{"id": "1", "status": "in_progress"})
	require.Equal(t, "ALREADY_COMPLETED", apiErr.Code)

	apiErr = c.fail("reopen_mission", map[string]any{"id": "1", "actor_id": "2", "reason": ""})
	require.Equal(t, "MISSING_REASON", apiErr.Code)

	var reopened struct {
		Mission struct {
			Status  string     `json:"status"`
			DateFin *time.Time `json:"date_fin"`
		} `json:"mission"`
	}
	c.ok("reopen_mission", map[string]any{"id": "1", "actor_id": "2", "reason": "Client a envoyé des factures"}, &reopened)
	require.Equal(t, "in_progress", reopened.Mission.Status)
	require.Nil(t, reopened.Mission.DateFin)

	var acts []struct {
		Type    string `json:"type"`
		ActorID string `json:"actor_id"`
	}
	c.ok("recent_activity", map[string]any{"subject_id": "1", "limit": 10}, &acts)
	types := make([]string, 0, len(acts))
	for _, a := range acts {
		types = append(types, a.Type)
	}
	require.ElementsMatch(t, []string{"task_completed", "mission_completed", "mission_reopened"}, types)
}

func TestTools_BillingTotalsAndFreeZoneWarning(t *testing.T) {
	c := connect(t, &fakeClock{now: time.Now()})

	var totals mcp.TotalsResponse
	c.ok("compute_totals", map[string]any{
		"items": []map[string]any{{"description": "Tenue", "quantity": 1, "unit_price": 3000}},
	}, &totals)
	require.InDelta(t, 20, totals.VATRate, 1e-9)
	require.InDelta(t, 600, totals.VATAmount, 1e-9)
	require.InDelta(t, 3600, totals.Total, 1e-9)

	apiErr := c.fail("compute_totals", map[string]any{
		"vat_rate": 20,
		"items": []map[string]any{
			{"description": "A", "quantity": 1, "unit_price": 100, "vat_rate": 20},
			{"description": "B", "quantity": 1, "unit_price": 100, "vat_rate": 10},
		},
	})
	require.Equal(t, "MIXED_VAT_RATES", apiErr.Code)

	apiErr = c.fail("compute_totals", map[string]any{
		"vat_rate": 20,
		"items": []map[string]any{
			{"description": "A", "quantity": 1, "unit_price": 100, "vat_rate": 20},
			{"description": "B", "quantity": 1, "unit_price": 100, "vat_rate": 0},
		},
	})
	require.Equal(t, "MIXED_VAT_RATES", apiErr.Code)

	var saved struct {
		Document struct {
			InvoiceNumber string  `json:"invoice_number"`
			Total         float64 `json:"total"`
			Currency      string  `json:"currency"`
		} `json:"document"`
		Warnings []string `json:"warnings"`
	}
	c.ok("save_invoice", map[string]any{
		"client_id": "2",
		"actor_id":  "2",
		"currency":  "EUR",
		"items":     []map[string]any{{"description": "Audit", "quantity": 2, "unit_price": 1000}},
	}, &saved)
	require.Regexp(t, `^FAC-\d{4}-002$`, saved.Document.InvoiceNumber)
	require.InDelta(t, 2400, saved.Document.Total, 1e-9)
	require.Equal(t, []string{billing.FreeZoneWarningText}, saved.Warnings)

	apiErr = c.fail("save_credit_note", map[string]any{
		"original_invoice_id": "missing",
		"reason":              "Erreur",
		"items":               []map[string]any{{"description": "Avoir", "quantity": 1, "unit_price": 100}},
	})
	require.Equal(t, "DOCUMENT_NOT_FOUND", apiErr.Code)

	var invoices []struct {
		ID string `json:"id"`
	}
	c.ok("list_invoices", map[string]any{"client_id": "2"}, &invoices)
	require.Len(t, invoices, 1)

	var acts []struct {
		ActorID string `json:"actor_id"`
	}
	c.ok("recent_activity", map[string]any{"type": "document_saved"}, &acts)
	require.Len(t, acts, 1)
	require.Equal(t, "2", acts[0].ActorID)
}

func TestTools_DeadlineBoard(t *testing.T) {
	c := connect(t, &fakeClock{now: time.Now()})

	var board struct {
		Entries []struct {
			Deadline struct {
				ID string `json:"id"`
			} `json:"deadline"`
			EffectiveStatus string `json:"effective_status"`
			DaysUntilDue    int    `json:"days_until_due"`
			Urgency         string `json:"urgency"`
		} `json:"entries"`
		Stats struct {
			Overdue   int `json:"overdue"`
			Completed int `json:"completed"`
		} `json:"stats"`
	}
	c.ok("deadline_board", map[string]any{"client_id": "1", "now": "2024-02-16T12:00:00Z"}, &board)
	require.Len(t, board.Entries, 3)
	require.Equal(t, "3", board.Entries[0].Deadline.ID)
	require.Equal(t, "overdue", board.Entries[0].EffectiveStatus)
	require.Equal(t, -1, board.Entries[0].DaysUntilDue)
	require.Equal(t, "critical", board.Entries[0].Urgency)
	require.Equal(t, 1, board.Stats.Overdue)

	apiErr := c.fail("deadline_board", map[string]any{"now": "16/02/2024"})
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
}

func TestTools_ClientDeleteRequiresForce(t *testing.T) {
	c := connect(t, &fakeClock{now: time.Now()})

	apiErr := c.fail("delete_client", map[string]any{"id": "2"})
	require.Equal(t, "CLIENT_IN_USE", apiErr.Code)

	var deleted mcp.DeleteResponse
	c.ok("delete_client", map[string]any{"id": "2", "actor_id": "1", "force": true}, &deleted)
	require.True(t, deleted.Deleted)

	var acts []struct {
		Type    string `json:"type"`
		ActorID string `json:"actor_id"`
	}
	c.ok("recent_activity", map[string]any{"subject_id": "2"}, &acts)
	require.Len(t, acts, 1)
	require.Equal(t, "client_deleted", acts[0].Type)
	require.Equal(t, "1", acts[0].ActorID)

	apiErr = c.fail("get_client", map[string]any{"id": "2"})
	require.Equal(t, "CLIENT_NOT_FOUND", apiErr.Code)
}
