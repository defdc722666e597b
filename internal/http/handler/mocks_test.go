package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/service"
)

type mockLinkService struct {
	createFn func(ctx context.Context, input service.CreateLinkInput) (*service.CreatedLink, error)
	listFn   func(ctx context.Context, search string) ([]model.Link, error)
	getFn    func(ctx context.Context, code string) (*model.LinkDetail, error)
	deleteFn func(ctx context.Context, code string) (string, error)
}

func (m *mockLinkService) CreateLink(ctx context.Context, input service.CreateLinkInput) (*service.CreatedLink, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, errors.New("create not implemented")
}

func (m *mockLinkService) ListLinks(ctx context.Context, search string) ([]model.Link, error) {
	if m.listFn != nil {
		return m.listFn(ctx, search)
	}
	return nil, nil
}

func (m *mockLinkService) GetLink(ctx context.Context, code string) (*model.LinkDetail, error) {
	if m.getFn != nil {
		return m.getFn(ctx, code)
	}
	return nil, errors.New("get not implemented")
}

func (m *mockLinkService) DeleteLink(ctx context.Context, code string) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return "", errors.New("delete not implemented")
}

type mockRedirectService struct {
	followFn func(ctx context.Context, code string, info service.ClickInfo) (*model.Link, error)
}

func (m *mockRedirectService) Follow(ctx context.Context, code string, info service.ClickInfo) (*model.Link, error) {
	if m.followFn != nil {
		return m.followFn(ctx, code, info)
	}
	return nil, errors.New("follow not implemented")
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error {
	return m.err
}

// do runs req against app without a timeout and returns the response and its body.
func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}
