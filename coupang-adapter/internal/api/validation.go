package api

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/coupang"
)

const maxLimit = 100

var (
	errMissingSelector = errors.New("`type=coupangPL`, `type=goldbox` or `category_id` parameter is required")
	errMissingCategory = errors.New("categories is required")

	imageSizePattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)
)

// ToSpec validates the query and resolves it to a category. A recognised type
// takes precedence over category_id.
func (q *ProductsQuery) ToSpec() (coupang.CategorySpec, error) {
	limit, err := parseLimit(q.Limit)
	if err != nil {
		return coupang.CategorySpec{}, err
	}
	if q.ImageSize != "" && !imageSizePattern.MatchString(q.ImageSize) {
		return coupang.CategorySpec{}, fmt.Errorf("imageSize must look like 512x512")
	}

	switch {
	case q.Type == string(coupang.KindPrivateLabel):
		return coupang.PrivateLabelSpec(limit, q.ImageSize), nil
	case q.Type == string(coupang.KindGoldBox):
		return coupang.GoldBoxSpec(limit), nil
	case q.CategoryID != "":
		spec := coupang.BestSellersSpec(q.CategoryID, limit)
		if err := spec.Validate(); err != nil {
			return coupang.CategorySpec{}, fmt.Errorf("category_id must be numeric")
		}
		return spec, nil
	case q.Type != "":
		return coupang.CategorySpec{}, fmt.Errorf("type must be one of goldbox, coupangPL")
	default:
		return coupang.CategorySpec{}, errMissingSelector
	}
}

// ToSpecs validates the query and resolves each comma-separated category in order.
func (q *RecommendationsQuery) ToSpecs() ([]coupang.CategorySpec, error) {
	limit, err := parseLimit(q.Limit)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, tok := range strings.Split(q.Categories, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil, errMissingCategory
	}
	return coupang.ParseCategories(tokens, limit)
}

// parseLimit returns 0 for an absent limit, meaning the resource default.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
	}
	return n, nil
}
