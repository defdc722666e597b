package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/internal/http/view"
	"go.uber.org/zap"
)

// PageDeps groups dependencies required by the HTML page handlers.
type PageDeps struct {
	Logger  *zap.Logger
	BaseURL string
}

// PageHandler serves the home page, the dashboard and the not-found page.
type PageHandler struct {
	logger  *zap.Logger
	baseURL string
}

func NewPageHandler(deps PageDeps) *PageHandler {
	return &PageHandler{
		logger:  nopIfNil(deps.Logger),
		baseURL: deps.BaseURL,
	}
}

func (h *PageHandler) Register(router fiber.Router) {
	router.Get("/", h.page(view.PageHome, "Shorten a link"))
	router.Get("/dashboard", h.page(view.PageDashboard, "Dashboard"))
	router.Get(NotFoundPath, h.page(view.PageNotFound, "Not found"))
}

func (h *PageHandler) page(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		html, err := view.Render(name, view.PageData{Title: title, BaseURL: h.baseURL})
		if err != nil {
			h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to render page",
			})
		}
		return c.Type("html", "utf-8").SendString(html)
	}
}
