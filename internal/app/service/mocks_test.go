package service

import (
	"context"

	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/repository"
	"github.com/sifan077/linkpulse/internal/errx"
)

type mockLinkRepository struct {
	createFn      func(ctx context.Context, link *model.Link) error
	getFn         func(ctx context.Context, code string) (*model.Link, error)
	listFn        func(ctx context.Context, search string) ([]model.Link, error)
	deleteFn      func(ctx context.Context, code string) error
	recordClickFn func(ctx context.Context, id int64, click *model.ClickLog) error
	codesFn       func(ctx context.Context) ([]string, error)
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	if m.getFn != nil {
		return m.getFn(ctx, code)
	}
	return nil, errx.E("mock.GetByCode", errx.NotFound, repository.ErrLinkNotFound)
}

func (m *mockLinkRepository) List(ctx context.Context, search string) ([]model.Link, error) {
	if m.listFn != nil {
		return m.listFn(ctx, search)
	}
	return nil, nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, code string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return nil
}

func (m *mockLinkRepository) RecordClick(ctx context.Context, id int64, click *model.ClickLog) error {
	if m.recordClickFn != nil {
		return m.recordClickFn(ctx, id, click)
	}
	return nil
}

func (m *mockLinkRepository) Codes(ctx context.Context) ([]string, error) {
	if m.codesFn != nil {
		return m.codesFn(ctx)
	}
	return nil, nil
}

type mockClickLogRepository struct {
	listFn func(ctx context.Context, linkID int64) ([]model.ClickLog, error)
}

func (m *mockClickLogRepository) Create(ctx context.Context, click *model.ClickLog) error {
	return nil
}

func (m *mockClickLogRepository) ListByLink(ctx context.Context, linkID int64) ([]model.ClickLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, linkID)
	}
	return []model.ClickLog{}, nil
}

type mockCache struct {
	items    map[string]model.Link
	getErr   error
	deleted  []string
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string]model.Link{}}
}

func (m *mockCache) Get(ctx context.Context, code string) (*model.Link, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	link, ok := m.items[code]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (m *mockCache) Set(ctx context.Context, link *model.Link) error {
	m.setCalls++
	m.items[link.ShortCode] = *link
	return nil
}

func (m *mockCache) Delete(ctx context.Context, code string) error {
	m.deleted = append(m.deleted, code)
	delete(m.items, code)
	return nil
}

type mockPublisher struct {
	events []model.ClickEvent
	err    error
}

func (m *mockPublisher) Publish(event model.ClickEvent) error {
	m.events = append(m.events, event)
	return m.err
}
