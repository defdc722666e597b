package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/config"
	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/repository"
	"github.com/sifan077/linkpulse/internal/app/service"
	infraPostgres "github.com/sifan077/linkpulse/internal/infra/postgres"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupIntegrationApp wires the real repositories and services over a throwaway Postgres.
func setupIntegrationApp(t *testing.T) *fiber.App {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("linkpulse"),
		tcpostgres.WithUsername("linkpulse"),
		tcpostgres.WithPassword("linkpulse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := infraPostgres.NewPool(ctx, config.PostgresConfig{URL: connStr})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	db, err := infraPostgres.NewGorm(pool, nil)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	if err := infraPostgres.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	// Running the migration again must be harmless.
	if err := infraPostgres.Migrate(ctx, db); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}

	links := repository.NewLinkRepository(db)
	clicks := repository.NewClickLogRepository(db)

	srv := New(Dependencies{
		DB: pool,
		Links: service.NewLinkService(service.LinkServiceDeps{
			Links:   links,
			Clicks:  clicks,
			BaseURL: "http://localhost:8080",
		}),
		Redirects: service.NewRedirectService(service.RedirectDeps{Links: links}),
		BaseURL:   "http://localhost:8080",
	})
	return srv.App()
}

func send(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.Header.Set(fiber.HeaderUserAgent, "e2e-agent")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestEndToEnd_CreateRedirectInspectDelete(t *testing.T) {
	app := setupIntegrationApp(t)

	resp, body := send(t, app, http.MethodGet, "/healthz", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: expected 200, got %d: %s", resp.StatusCode, body)
	}

	resp, body = send(t, app, http.MethodPost, "/api/links", `{"originalUrl":"https://example.com/a","customCode":"promo1"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created service.CreatedLink
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ShortURL != "http://localhost:8080/promo1" || created.Link.ClickCount != 0 {
		t.Fatalf("unexpected create response %s", body)
	}

	resp, body = send(t, app, http.MethodPost, "/api/links", `{"originalUrl":"https://other.example.com","customCode":"promo1"}`)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d: %s", resp.StatusCode, body)
	}

	resp, _ = send(t, app, http.MethodGet, "/promo1", "")
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get(fiber.HeaderLocation) != "https://example.com/a" {
		t.Fatalf("redirect: got %d to %q", resp.StatusCode, resp.Header.Get(fiber.HeaderLocation))
	}

	resp, _ = send(t, app, http.MethodGet, "/nosuch1", "")
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get(fiber.HeaderLocation) != "/404" {
		t.Fatalf("unknown code: got %d to %q", resp.StatusCode, resp.Header.Get(fiber.HeaderLocation))
	}

	resp, body = send(t, app, http.MethodGet, "/api/links/promo1", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var detail model.LinkDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Link.ClickCount != 1 || detail.Link.LastClickedAt == nil {
		t.Fatalf("expected one recorded click, got %+v", detail.Link)
	}
	if len(detail.ClickLogs) != 1 || detail.ClickLogs[0].UserAgent != "e2e-agent" {
		t.Fatalf("expected one click log, got %+v", detail.ClickLogs)
	}
	if detail.Link.OriginalURL != "https://example.com/a" {
		t.Fatalf("duplicate create must not overwrite, got %q", detail.Link.OriginalURL)
	}

	resp, body = send(t, app, http.MethodGet, "/api/links?search=EXAMPLE.COM", "")
	var listed []model.Link
	if err := json.Unmarshal(body, &listed); err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list: %d %s (%v)", resp.StatusCode, body, err)
	}
	if len(listed) != 1 || listed[0].ShortCode != "promo1" {
		t.Fatalf("unexpected search result %s", body)
	}

	resp, body = send(t, app, http.MethodDelete, "/api/links/promo1", "")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), "Short URL 'promo1' deleted successfully") {
		t.Fatalf("delete: %d %s", resp.StatusCode, body)
	}

	resp, _ = send(t, app, http.MethodGet, "/api/links/promo1", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}
	resp, _ = send(t, app, http.MethodGet, "/promo1", "")
	if resp.Header.Get(fiber.HeaderLocation) != "/404" {
		t.Fatalf("redirect after delete: expected /404, got %q", resp.Header.Get(fiber.HeaderLocation))
	}
}
