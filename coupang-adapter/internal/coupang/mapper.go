package coupang

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(math.MaxInt64)

var (
	errMalformedProduct = errors.New("malformed")
	errMissingName      = errors.New("missing_name")
	errMissingImage     = errors.New("missing_image")
	errMissingURL       = errors.New("missing_url")
	errInvalidPrice     = errors.New("invalid_price")
)

// rawProduct mirrors the upstream product element. Only the fields the
// adapter exposes are decoded.
type rawProduct struct {
	ProductName  string              `json:"productName"`
	ProductPrice decimal.NullDecimal `json:"productPrice"`
	ProductImage string              `json:"productImage"`
	ProductURL   string              `json:"productUrl"`
}

// toProduct validates one element. The returned error's text is a metrics-safe reason.
func toProduct(raw json.RawMessage) (Product, error) {
	var rp rawProduct
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Product{}, errMalformedProduct
	}
	if rp.ProductName == "" {
		return Product{}, errMissingName
	}
	if rp.ProductImage == "" {
		return Product{}, errMissingImage
	}
	if rp.ProductURL == "" {
		return Product{}, errMissingURL
	}

	p := Product{
		Name:  rp.ProductName,
		Image: rp.ProductImage,
		URL:   rp.ProductURL,
	}
	if rp.ProductPrice.Valid {
		price := rp.ProductPrice.Decimal
		if !price.IsInteger() || price.IsNegative() || price.GreaterThan(maxPrice) {
			return Product{}, errInvalidPrice
		}
		v := price.IntPart()
		p.Price = &v
	}
	return p, nil
}

// toDeeplinkPair decodes one conversion element, reporting false when either URL is absent.
func toDeeplinkPair(raw json.RawMessage) (DeeplinkPair, bool) {
	var pair DeeplinkPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return DeeplinkPair{}, false
	}
	if pair.OriginalURL == "" || pair.ShortenURL == "" {
		return DeeplinkPair{}, false
	}
	return pair, true
}
