//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/directory"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/entity"
	notificationrepo "github.com/heartmarshall/notify-backend/internal/adapter/postgres/notification"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/subscription"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/notify-backend/internal/adapter/webpush"
	authpkg "github.com/heartmarshall/notify-backend/internal/auth"
	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/approval"
	"github.com/heartmarshall/notify-backend/internal/service/automation"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
	"github.com/heartmarshall/notify-backend/internal/service/push"
	"github.com/heartmarshall/notify-backend/internal/transport/middleware"
	"github.com/heartmarshall/notify-backend/internal/transport/rest"
)

const (
	testInternalKey = "e2e-internal-key"
	testOrigin      = "https://app.example.com"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Push   *fakePushService
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// fakePushService accepts every message except those sent to endpoints
// under /gone/, which it reports as expired.
type fakePushService struct {
	*httptest.Server

	mu   sync.Mutex
	hits []string
}

func newFakePushService(t *testing.T) *fakePushService {
	t.Helper()

	f := &fakePushService{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.URL.Path)
		f.mu.Unlock()

		if strings.HasPrefix(r.URL.Path, "/gone/") {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(f.Close)
	return f
}

// Hits returns how many messages reached path.
func (f *fakePushService) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, h := range f.hits {
		if h == path {
			n++
		}
	}
	return n
}

// setupTestServer wires the application the way app.Run does, against a
// containerised database and a fake push service.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	fake := newFakePushService(t)

	publicKey, privateKey, err := webpush.GenerateKeys()
	require.NoError(t, err)

	pushCfg := config.PushConfig{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subject:         "mailto:e2e@example.com",
		TTL:             time.Hour,
		SendTimeout:     5 * time.Second,
		DeliveryTimeout: 10 * time.Second,
		MaxConcurrency:  4,
		PruneMode:       config.PruneDelete,
		DefaultURL:      "/",
		Direction:       "auto",
		Language:        "en",
	}

	// Repositories.
	notificationRepo := notificationrepo.New(pool)
	subscriptionRepo := subscription.New(pool)
	entityRepo := entity.New(pool)
	directoryRepo := directory.New(pool)
	txm := postgres.NewTxManager(pool)

	// Services.
	sender := webpush.NewSender(pushCfg, fake.Client())
	pushService := push.NewService(logger, subscriptionRepo, sender, pushCfg)
	notificationService := notification.NewService(
		logger, notificationRepo, pushService, directoryRepo, 15*time.Second,
	)
	dispatcher := automation.NewDispatcher(
		logger, notificationService, directoryRepo, entityRepo, config.AutomationConfig{
			AdminRolesRaw:     "admin",
			MaxConcurrency:    4,
			LookupTimeout:     5 * time.Second,
			MaxRoleRecipients: 50,
		},
	)
	sink := automation.NewAsyncSink(logger, dispatcher, 30*time.Second)
	approvalService := approval.NewService(
		logger, entityRepo, txm, sink, []string{"admin", "project_manager"},
	)

	jwtMgr := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer", 15*time.Minute)

	router := rest.Router{
		Health:       rest.NewHealthHandler(pool, "test-version"),
		Notification: rest.NewNotificationHandler(notificationService, logger),
		Push:         rest.NewPushHandler(pushService, logger),
		Automation:   rest.NewAutomationHandler(dispatcher, logger, 30*time.Second),
		Approval:     rest.NewApprovalHandler(approvalService, logger),
		User:         middleware.RequireAuth,
		Internal:     middleware.InternalKey(testInternalKey),
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   testOrigin,
			AllowedMethods:   "GET,POST,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type,X-Request-Id",
			AllowCredentials: true,
			MaxAge:           600,
		}),
		middleware.Auth(jwtMgr),
	)(router.Handler())

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		sink.Wait()
		notificationService.Wait()
	})

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		Push:   fake,
		jwt:    jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// Request helpers.
// ---------------------------------------------------------------------------

// token issues an access token for a seeded user.
func (ts *testServer) token(t *testing.T, u testhelper.SeedUser) string {
	t.Helper()

	tok, err := ts.jwt.GenerateAccessToken(domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	require.NoError(t, err)
	return tok
}

// restRequest sends a JSON request. A non-empty token is sent as a bearer
// credential; the internal key is sent when internal is true.
func (ts *testServer) restRequest(t *testing.T, method, path, token string, internal bool, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if internal {
		req.Header.Set("X-Internal-Key", testInternalKey)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&result)
	}
	return resp.StatusCode, result
}

// subscribe registers a device for the token's owner at the fake push
// service path and returns its endpoint.
func (ts *testServer) subscribe(t *testing.T, token, path string) string {
	t.Helper()

	p256dh, auth, err := webpush.NewClientKeys()
	require.NoError(t, err)

	endpoint := ts.Push.URL + path
	status, body := ts.restRequest(t, http.MethodPost, "/api/push/subscriptions", token, false, map[string]any{
		"endpoint":    endpoint,
		"keys":        map[string]string{"p256dh": p256dh, "auth": auth},
		"device_name": "e2e browser",
	})
	require.Equal(t, http.StatusCreated, status, "subscribe: %v", body)
	return endpoint
}

// inbox returns the caller's notifications, newest first.
func (ts *testServer) inbox(t *testing.T, token string) []map[string]any {
	t.Helper()

	status, body := ts.restRequest(t, http.MethodGet, "/api/notifications", token, false, nil)
	require.Equal(t, http.StatusOK, status, "list notifications: %v", body)

	raw, _ := body["items"].([]any)
	items := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// waitForCategory polls the caller's inbox until a notification of category
// arrives.
func (ts *testServer) waitForCategory(t *testing.T, token, category string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for {
		for _, n := range ts.inbox(t, token) {
			if n["category"] == category {
				return n
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("no %s notification arrived", category)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// waitForPush polls the fake push service until path received want messages.
func (ts *testServer) waitForPush(t *testing.T, path string, want int) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for ts.Push.Hits(path) < want {
		if time.Now().After(deadline) {
			t.Fatalf("push hits for %s: got %d, want %d", path, ts.Push.Hits(path), want)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// countRows runs a count query against the test database.
func (ts *testServer) countRows(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, ts.Pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
