package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
	"github.com/rpggio/cabinet/internal/domain/user"
)

// ClientService defines client operations needed by MCP.
type ClientService interface {
	Create(ctx context.Context, req client.CreateRequest) (*client.Client, error)
	Get(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context, activeOnly bool) []client.Client
	Update(ctx context.Context, c client.Client) (*client.Client, error)
	Delete(ctx context.Context, id, actorID string, force bool) error
}

// UserService defines user operations needed by MCP.
type UserService interface {
	List(ctx context.Context) []user.User
}

// MissionService defines mission operations needed by MCP.
type MissionService interface {
	Create(ctx context.Context, req mission.CreateRequest) (*mission.Mission, error)
	Get(ctx context.Context, id string) (*mission.Mission, error)
	List(ctx context.Context, opts mission.ListOptions) []mission.Mission
	Update(ctx context.Context, m mission.Mission) (*mission.Mission, error)
	Progress(ctx context.Context, id string) (mission.Progress, error)
	CompleteMission(ctx context.Context, id, actorID string, confirm bool) (*mission.Mission, error)
	ReopenMission(ctx context.Context, id, actorID, reason string) (*mission.Mission, error)
	CompleteTask(ctx context.Context, missionID, taskID, actorID string) (*mission.Mission, bool, error)
}

// TimerService defines timer operations needed by MCP.
type TimerService interface {
	Start(ctx context.Context, c timer.Context) (timer.Session, error)
	Pause(ctx context.Context) (timer.Session, error)
	Resume(ctx context.Context) (timer.Session, error)
	Stop(ctx context.Context) (*timer.StopResult, error)
	Discard(ctx context.Context) (timer.Session, error)
	Status(ctx context.Context) (timer.Session, int64)
}

// TimeEntryService defines time entry operations needed by MCP.
type TimeEntryService interface {
	List(ctx context.Context, opts timeentry.ListOptions) []timeentry.TimeEntry
	TotalMinutes(ctx context.Context, opts timeentry.ListOptions) int
	Submit(ctx context.Context, id, actorID string) (*timeentry.TimeEntry, error)
	Review(ctx context.Context, id, reviewerID string, approve bool, comment string) (*timeentry.TimeEntry, error)
}

// DeadlineService defines deadline operations needed by MCP.
type DeadlineService interface {
	Create(ctx context.Context, req deadline.CreateRequest) (*deadline.Deadline, error)
	Get(ctx context.Context, id string) (*deadline.Deadline, error)
	Update(ctx context.Context, d deadline.Deadline) (*deadline.Deadline, error)
	Board(ctx context.Context, now time.Time, opts deadline.BoardOptions) []deadline.Entry
	Stats(ctx context.Context, now time.Time, opts deadline.BoardOptions) deadline.Stats
	Matrix(ctx context.Context, now time.Time, opts deadline.BoardOptions) []deadline.MatrixRow
}

// BillingService defines billing operations needed by MCP.
type BillingService interface {
	DefaultVATRate() float64
	SaveInvoice(ctx context.Context, actorID string, inv billing.Invoice) (*billing.Saved[billing.Invoice], error)
	SaveQuote(ctx context.Context, actorID string, q billing.Quote) (*billing.Saved[billing.Quote], error)
	SaveCreditNote(ctx context.Context, actorID string, cn billing.CreditNote) (*billing.Saved[billing.CreditNote], error)
	ListInvoices(ctx context.Context, opts billing.ListOptions) []billing.Invoice
	ListQuotes(ctx context.Context, opts billing.ListOptions) []billing.Quote
	ListCreditNotes(ctx context.Context, opts billing.ListOptions) []billing.CreditNote
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Clients     ClientService
	Users       UserService
	Missions    MissionService
	Timer       TimerService
	TimeEntries TimeEntryService
	Deadlines   DeadlineService
	Billing     BillingService
	Activity    ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	// Clock is used for time-derived views. Defaults to time.Now.
	Clock func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "cabinet",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(actorMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services, cfg.Clock), cfg.Logger)

	return server
}
