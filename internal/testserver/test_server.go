// Package testserver runs the full HTTP stack over an in-memory SQLite
// database for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cabinet/internal/app"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/mcp"
	"github.com/rpggio/cabinet/internal/sqlite"
	"github.com/rpggio/cabinet/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	App    *app.App
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a, err := app.Build(context.Background(), sqlite.NewKVStore(db), app.Options{
		Billing: billing.Config{DefaultVATRate: 20},
	})
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		TransportMode: "http",
	})
	server := httptest.NewServer(transport.NewServer(mcpServer, transport.Options{
		Actors:  a.Users,
		Backend: "sqlite",
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, App: a}
}

// Connect opens an MCP session over streamable HTTP. A non-empty actorID is
// sent as the actor header on every request.
func (ts *TestServer) Connect(t *testing.T, actorID string) *sdkmcp.ClientSession {
	t.Helper()

	httpClient := ts.Server.Client()
	if actorID != "" {
		httpClient = &http.Client{Transport: &actorTransport{base: httpClient.Transport, actorID: actorID}}
	}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type actorTransport struct {
	base    http.RoundTripper
	actorID string
}

func (a *actorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(mcp.ActorHeader, a.actorID)
	base := a.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
