package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/internal/app/model"
	"github.com/sifan077/linkpulse/internal/app/service"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService

	// CreateLimiter guards link creation when set.
	CreateLimiter fiber.Handler
}

// APIHandler implements the management API endpoints.
type APIHandler struct {
	logger        *zap.Logger
	linkService   service.LinkService
	createLimiter fiber.Handler
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	return &APIHandler{
		logger:        nopIfNil(deps.Logger),
		linkService:   deps.LinkService,
		createLimiter: deps.CreateLimiter,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		links := api.Group("/links")
		{
			if h.createLimiter != nil {
				links.Post("/", h.createLimiter, h.CreateLink)
			} else {
				links.Post("/", h.CreateLink)
			}
			links.Get("/", h.ListLinks)
			links.Get("/:code", h.GetLink)
			links.Delete("/:code", h.DeleteLink)
		}
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	CustomCode  string `json:"customCode,omitempty"`
}

// CreateLink handles POST /api/links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.linkService.CreateLink(userContext(c), service.CreateLinkInput{
		OriginalURL: strings.TrimSpace(req.OriginalURL),
		CustomCode:  req.CustomCode,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.logger.Info("short link created",
		zap.String("code", created.Link.ShortCode),
		zap.String("target", created.Link.OriginalURL),
	)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListLinks handles GET /api/links?search=
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.linkService.ListLinks(userContext(c), c.Query("search"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if links == nil {
		links = []model.Link{}
	}
	return c.JSON(links)
}

// GetLink handles GET /api/links/:code
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	detail, err := h.linkService.GetLink(userContext(c), c.Params("code"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if detail.ClickLogs == nil {
		detail.ClickLogs = []model.ClickLog{}
	}
	return c.JSON(detail)
}

// DeleteLink handles DELETE /api/links/:code
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	code := c.Params("code")
	msg, err := h.linkService.DeleteLink(userContext(c), code)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.logger.Info("short link deleted", zap.String("code", code))
	return c.JSON(fiber.Map{
		"message": msg,
	})
}
