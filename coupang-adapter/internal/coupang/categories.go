package coupang

import (
	"fmt"
	"strings"
)

// ParseCategory reads one category token:
//
//	goldbox | coupangPL | coupangPL:<imageSize> | <categoryId> | bestcategories:<categoryId>
func ParseCategory(token string, limit int) (CategorySpec, error) {
	token = strings.TrimSpace(token)
	name, arg, _ := strings.Cut(token, ":")

	var spec CategorySpec
	switch {
	case name == string(KindGoldBox) && arg == "":
		spec = GoldBoxSpec(limit)
	case name == string(KindPrivateLabel):
		spec = PrivateLabelSpec(limit, arg)
	case name == string(KindBestSellers):
		spec = BestSellersSpec(arg, limit)
	case isNumeric(token):
		spec = BestSellersSpec(token, limit)
	default:
		return CategorySpec{}, fmt.Errorf("%w: %q", ErrInvalidCategory, token)
	}
	if err := spec.Validate(); err != nil {
		return CategorySpec{}, err
	}
	return spec, nil
}

// ParseCategories parses every token, keeping their order.
func ParseCategories(tokens []string, limit int) ([]CategorySpec, error) {
	specs := make([]CategorySpec, 0, len(tokens))
	for _, tok := range tokens {
		spec, err := ParseCategory(tok, limit)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
