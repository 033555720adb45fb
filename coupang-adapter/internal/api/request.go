package api

import "github.com/gofiber/fiber/v2"

// ProductsQuery carries the query parameters of GET /api/v1/products.
type ProductsQuery struct {
	Type       string
	CategoryID string
	Limit      string
	ImageSize  string
}

// RecommendationsQuery carries the query parameters of GET /api/v1/recommendations.
type RecommendationsQuery struct {
	Categories string
	Limit      string
}

func parseProductsQuery(c *fiber.Ctx) ProductsQuery {
	return ProductsQuery{
		Type:       c.Query("type"),
		CategoryID: c.Query("category_id"),
		Limit:      c.Query("limit"),
		ImageSize:  c.Query("imageSize"),
	}
}

func parseRecommendationsQuery(c *fiber.Ctx) RecommendationsQuery {
	return RecommendationsQuery{
		Categories: c.Query("categories"),
		Limit:      c.Query("limit"),
	}
}
