// Package app loads every collection from a byte store and wires the domain
// services on top of them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
	"github.com/rpggio/cabinet/internal/domain/user"
	"github.com/rpggio/cabinet/internal/mcp"
	"github.com/rpggio/cabinet/internal/repository"
	"github.com/rpggio/cabinet/internal/seed"
	"github.com/rpggio/cabinet/internal/store"
)

// Collection keys.
const (
	KeyClients     = "clients"
	KeyUsers       = "users"
	KeyMissions    = "missions"
	KeyTimeEntries = "time_entries"
	KeyDeadlines   = "deadlines"
	KeyInvoices    = "invoices"
	KeyQuotes      = "quotes"
	KeyCreditNotes = "credit_notes"
	KeyActivity    = "activity"
)

// Keys lists every collection key Build loads.
var Keys = []string{
	KeyClients, KeyUsers, KeyMissions, KeyTimeEntries, KeyDeadlines,
	KeyInvoices, KeyQuotes, KeyCreditNotes, KeyActivity,
}

// Reset deletes every stored collection so the next Build reseeds the default
// dataset. Keys that are not cabinet collections are left alone. It returns
// the deleted keys.
func Reset(ctx context.Context, bytes repository.ByteStore) ([]string, error) {
	stored, err := bytes.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	known := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		known[k] = true
	}
	deleted := []string{}
	for _, k := range stored {
		if !known[k] {
			continue
		}
		if err := bytes.Delete(ctx, k); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return deleted, fmt.Errorf("deleting %s: %w", k, err)
		}
		deleted = append(deleted, k)
	}
	return deleted, nil
}

// Options configures Build.
type Options struct {
	// Optimistic makes every collection write conditional on the version read.
	Optimistic bool
	Billing    billing.Config
	// Clock drives the timer engine. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// App holds the wired services.
type App struct {
	Users       *user.Service
	Clients     *client.Service
	Missions    *mission.Service
	TimeEntries *timeentry.Service
	Timer       *timer.Service
	Deadlines   *deadline.Service
	Billing     *billing.Service
	Activity    *activity.Service
}

// Build loads all collections from bytes, seeding missing ones with the
// default dataset, and wires the services.
func Build(ctx context.Context, bytes repository.ByteStore, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	a := &App{}

	users, err := load(ctx, bytes, KeyUsers, seed.Users, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	clients, err := load(ctx, bytes, KeyClients, seed.Clients, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	missions, err := load(ctx, bytes, KeyMissions, seed.Missions, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	entries, err := load(ctx, bytes, KeyTimeEntries, seed.TimeEntries, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	deadlines, err := load(ctx, bytes, KeyDeadlines, seed.Deadlines, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	invoices, err := load(ctx, bytes, KeyInvoices, seed.Invoices, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	quotes, err := load(ctx, bytes, KeyQuotes, seed.Quotes, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	creditNotes, err := load(ctx, bytes, KeyCreditNotes, seed.CreditNotes, opts, a.persistFailed)
	if err != nil {
		return nil, err
	}
	// The activity collection reports its own failures only through logs.
	activities, err := load[activity.ActivityEntry](ctx, bytes, KeyActivity, nil, opts, nil)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	a.Activity = activity.NewService(activities, logger)
	a.Users = user.NewService(users, logger)

	// The client delete guard counts references in collections built below.
	dependents := map[string]client.Dependent{}
	a.Clients = client.NewService(clients, dependents, a.Activity, logger)

	a.Missions = mission.NewService(missions, a.Users, a.Activity, logger)
	a.TimeEntries = timeentry.NewService(entries, a.Users, a.Activity, logger)
	a.Timer = timer.NewService(timer.NewEngine(timer.WithClock(opts.Clock)), a.TimeEntries, a.Missions, a.Activity, logger)
	a.Deadlines = deadline.NewService(deadlines, logger)
	a.Billing = billing.NewService(invoices, quotes, creditNotes, a.Clients, a.Activity, opts.Billing, logger)

	dependents[KeyMissions] = a.Missions
	dependents[KeyTimeEntries] = a.TimeEntries
	dependents[KeyDeadlines] = a.Deadlines
	dependents["documents"] = a.Billing

	return a, nil
}

// MCPServices exposes the services to the tool surface.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Clients:     a.Clients,
		Users:       a.Users,
		Missions:    a.Missions,
		Timer:       a.Timer,
		TimeEntries: a.TimeEntries,
		Deadlines:   a.Deadlines,
		Billing:     a.Billing,
		Activity:    a.Activity,
	}
}

// persistFailed audits a failed write-through. It is a no-op until the
// activity service exists, which covers seeding during Build.
func (a *App) persistFailed(ctx context.Context, key string, err error) {
	if a.Activity != nil {
		a.Activity.Record(ctx, activity.TypePersistenceFailed, "", key, err.Error())
	}
}

func load[T store.Record[T]](ctx context.Context, bytes repository.ByteStore, key string, defaults func() []T, opts Options, onPersist func(context.Context, string, error)) (*store.EntityStore[T], error) {
	s := store.New[T](bytes, store.Options[T]{
		Key:            key,
		Defaults:       defaults,
		Optimistic:     opts.Optimistic,
		OnPersistError: onPersist,
		Logger:         opts.Logger,
	})
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return s, nil
}
