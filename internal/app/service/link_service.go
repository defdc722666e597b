package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/repository"
	"github.com/sifan077/linkpulse/internal/errx"
	metrics "github.com/sifan077/linkpulse/internal/infra/prometheus"
	"go.uber.org/zap"
)

// maxGenerateAttempts bounds how often a generated code is re-rolled while the
// code filter reports it as probably taken.
const maxGenerateAttempts = 5

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*CreatedLink, error)
	ListLinks(ctx context.Context, search string) ([]model.Link, error)
	GetLink(ctx context.Context, code string) (*model.LinkDetail, error)
	DeleteLink(ctx context.Context, code string) (string, error)
}

// LinkCache keeps the immutable part of a link (id, code, url) close to the redirect path.
// Get returns nil without error on a miss.
type LinkCache interface {
	Get(ctx context.Context, code string) (*model.Link, error)
	Set(ctx context.Context, link *model.Link) error
	Delete(ctx context.Context, code string) error
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	OriginalURL string
	CustomCode  string
}

// CreatedLink is a freshly stored link plus its public short URL.
type CreatedLink struct {
	ShortURL string      `json:"shortUrl"`
	Link     *model.Link `json:"data"`
}

// LinkServiceDeps groups the collaborators of the link service. Cache and Filter are optional.
type LinkServiceDeps struct {
	Logger   *zap.Logger
	Links    repository.LinkRepository
	Clicks   repository.ClickLogRepository
	Cache    LinkCache
	Filter   *CodeFilter
	BaseURL  string
	Generate func() (string, error)
}

type linkService struct {
	logger   *zap.Logger
	links    repository.LinkRepository
	clicks   repository.ClickLogRepository
	cache    LinkCache
	filter   *CodeFilter
	baseURL  string
	generate func() (string, error)
}

// NewLinkService returns a service implementation backed by the given repositories.
func NewLinkService(deps LinkServiceDeps) LinkService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generate := deps.Generate
	if generate == nil {
		generate = GenerateCode
	}
	return &linkService{
		logger:   logger,
		links:    deps.Links,
		clicks:   deps.Clicks,
		cache:    deps.Cache,
		filter:   deps.Filter,
		baseURL:  strings.TrimRight(deps.BaseURL, "/"),
		generate: generate,
	}
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*CreatedLink, error) {
	const op = "service.links.Create"

	if err := ValidateURL(input.OriginalURL); err != nil {
		return nil, errx.E(op, errx.Invalid, err)
	}

	code, err := s.resolveCode(input.CustomCode)
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Invalid), err)
	}

	if _, err := s.links.GetByCode(ctx, code); err == nil {
		return nil, errx.E(op, errx.Conflict, fmt.Errorf("short code %q already in use", code))
	} else if !errx.Is(err, errx.NotFound) {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	link := &model.Link{
		ShortCode:   code,
		OriginalURL: input.OriginalURL,
	}
	// A concurrent create can still win the race; the unique index turns that into a conflict.
	if err := s.links.Create(ctx, link); err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	s.filter.Add(code)
	metrics.LinksCreated.Inc()

	return &CreatedLink{
		ShortURL: s.baseURL + "/" + code,
		Link:     link,
	}, nil
}

func (s *linkService) resolveCode(custom string) (string, error) {
	if strings.TrimSpace(custom) != "" {
		return NormalizeCustomCode(custom)
	}

	var code string
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		generated, err := s.generate()
		if err != nil {
			return "", errx.E("service.links.generate", errx.Store, err)
		}
		code = generated
		if !s.filter.MayContain(code) {
			break
		}
	}
	return code, nil
}

func (s *linkService) ListLinks(ctx context.Context, search string) ([]model.Link, error) {
	const op = "service.links.List"

	links, err := s.links.List(ctx, search)
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}
	return links, nil
}

func (s *linkService) GetLink(ctx context.Context, code string) (*model.LinkDetail, error) {
	const op = "service.links.Get"

	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	logs, err := s.clicks.ListByLink(ctx, link.ID)
	if err != nil {
		return nil, errx.E(op, kindOr(err, errx.Store), err)
	}

	return &model.LinkDetail{Link: *link, ClickLogs: logs}, nil
}

func (s *linkService) DeleteLink(ctx context.Context, code string) (string, error) {
	const op = "service.links.Delete"

	if err := s.links.Delete(ctx, code); err != nil {
		return "", errx.E(op, kindOr(err, errx.Store), err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, code); err != nil {
			s.logger.Warn("failed to evict deleted link from cache", zap.String("code", code), zap.Error(err))
		}
	}
	metrics.LinksDeleted.Inc()

	return fmt.Sprintf("Short URL '%s' deleted successfully", code), nil
}

// kindOr keeps the kind already attached to err, falling back to def for bare errors.
func kindOr(err error, def errx.Kind) errx.Kind {
	if k := errx.KindOf(err); k != errx.Unknown {
		return k
	}
	return def
}
