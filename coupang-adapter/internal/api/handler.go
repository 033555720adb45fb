package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/coupang"
)

// ListingService defines the listing operations used by the handler.
type ListingService interface {
	Products(ctx context.Context, spec coupang.CategorySpec) ([]coupang.Product, coupang.Status)
	Recommend(ctx context.Context, specs []coupang.CategorySpec) []coupang.CategoryResult
}

// ProductsHandler serves product listings.
type ProductsHandler struct {
	logger  *zap.Logger
	service ListingService
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(logger *zap.Logger, service ListingService) *ProductsHandler {
	return &ProductsHandler{
		logger:  logger,
		service: service,
	}
}

// ListProducts returns the deeplinked products of one category. It is mounted
// for every method so that anything but GET gets a JSON 405.
func (h *ProductsHandler) ListProducts(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		c.Set(fiber.HeaderAllow, fiber.MethodGet)
		return writeError(c, fiber.StatusMethodNotAllowed, "Method Not Allowed")
	}

	q := parseProductsQuery(c)
	spec, err := q.ToSpec()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	products, status := h.service.Products(c.Context(), spec)
	c.Set(CategoryStatusHeader, string(status))
	if status != coupang.StatusOK {
		h.logger.Info("api.products.no_data",
			zap.String("category", spec.Key()),
			zap.String("status", string(status)))
		return c.Status(fiber.StatusOK).JSON([]coupang.Product{})
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// Recommendations returns one result per requested category in request order.
func (h *ProductsHandler) Recommendations(c *fiber.Ctx) error {
	q := parseRecommendationsQuery(c)
	specs, err := q.ToSpecs()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	results := h.service.Recommend(c.Context(), specs)
	return c.Status(fiber.StatusOK).JSON(results)
}
