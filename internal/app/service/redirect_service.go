package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/repository"
	"github.com/sifan077/linkpulse/internal/errx"
	"go.uber.org/zap"
)

// ClickInfo is what the redirect path captures about the visitor.
type ClickInfo struct {
	UserAgent string
	IP        string
}

// RedirectService resolves short codes and records the click before the visitor is sent on.
type RedirectService interface {
	Follow(ctx context.Context, code string, info ClickInfo) (*model.Link, error)
}

// EventPublisher hands click events to a downstream stream.
type EventPublisher interface {
	Publish(event model.ClickEvent) error
}

// RedirectDeps groups the collaborators of the redirect service. Cache and Events are optional.
type RedirectDeps struct {
	Logger *zap.Logger
	Links  repository.LinkRepository
	Cache  LinkCache
	Events EventPublisher
	Now    func() time.Time
}

type redirectService struct {
	logger *zap.Logger
	links  repository.LinkRepository
	cache  LinkCache
	events EventPublisher
	now    func() time.Time
}

// NewRedirectService wires the lookup, click recording and event publishing steps.
func NewRedirectService(deps RedirectDeps) RedirectService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &redirectService{
		logger: logger,
		links:  deps.Links,
		cache:  deps.Cache,
		events: deps.Events,
		now:    now,
	}
}

// Follow runs lookup, then the counter update and click log insert in one transaction.
// Nothing is written when the code is unknown.
func (s *redirectService) Follow(ctx context.Context, code string, info ClickInfo) (*model.Link, error) {
	const op = "service.redirect.Follow"

	link, fromCache, err := s.lookup(ctx, code)
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	click := &model.ClickLog{
		ClickTime: s.now().UTC(),
		UserAgent: info.UserAgent,
		IPAddress: info.IP,
	}
	err = s.links.RecordClick(ctx, link.ID, click)
	if errx.Is(err, errx.NotFound) {
		s.evict(ctx, code)
		// A cached id can outlive its row when the code was deleted and created again.
		if fromCache {
			link, err = s.links.GetByCode(ctx, code)
			if err == nil {
				err = s.links.RecordClick(ctx, link.ID, click)
				if err == nil {
					s.store(ctx, link)
				}
			}
		}
	}
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	s.publish(link, click)
	return link, nil
}

// lookup reports whether the link came from the cache.
func (s *redirectService) lookup(ctx context.Context, code string) (*model.Link, bool, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, code)
		if err != nil {
			s.logger.Warn("link cache read failed", zap.String("code", code), zap.Error(err))
		} else if cached != nil {
			return cached, true, nil
		}
	}

	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	s.store(ctx, link)
	return link, false, nil
}

func (s *redirectService) store(ctx context.Context, link *model.Link) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, link); err != nil {
		s.logger.Warn("link cache write failed", zap.String("code", link.ShortCode), zap.Error(err))
	}
}

func (s *redirectService) evict(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, code); err != nil {
		s.logger.Warn("link cache evict failed", zap.String("code", code), zap.Error(err))
	}
}

func (s *redirectService) publish(link *model.Link, click *model.ClickLog) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(model.NewClickEvent(uuid.NewString(), link, click)); err != nil {
		s.logger.Error("failed to publish click event", zap.String("code", link.ShortCode), zap.Error(err))
	}
}
