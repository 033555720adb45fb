package coupang

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/Checker-Finance/affiliate-adapters/pkg/utils"
)

// Credentials identify the partner account. Built once at startup and passed
// explicitly to the components that sign or tag requests.
type Credentials struct {
	AccessKey  string
	SecretKey  string
	PartnersID string
	SubID      string
}

// Validate reports a *ConfigError when a signing key is missing.
func (c Credentials) Validate() error {
	if c.AccessKey == "" {
		return &ConfigError{Field: "access key"}
	}
	if c.SecretKey == "" {
		return &ConfigError{Field: "secret key"}
	}
	return nil
}

// MarshalLogObject keeps keys masked when credentials are logged with zap.Object.
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("access_key", utils.MaskSecret(c.AccessKey))
	enc.AddString("secret_key", utils.MaskSecret(c.SecretKey))
	enc.AddString("partners_id", c.PartnersID)
	enc.AddString("sub_id", c.SubID)
	return nil
}

// Kind selects the upstream listing resource.
type Kind string

const (
	KindGoldBox      Kind = "goldbox"
	KindPrivateLabel Kind = "coupangPL"
	KindBestSellers  Kind = "bestcategories"
)

const (
	DefaultGoldBoxLimit      = 100
	DefaultPrivateLabelLimit = 20
	DefaultBestSellersLimit  = 100
)

// CategorySpec identifies one upstream listing query. Limit 0 means the
// resource default.
type CategorySpec struct {
	Kind       Kind   `json:"kind"`
	CategoryID string `json:"categoryId,omitempty"`
	ImageSize  string `json:"imageSize,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

func GoldBoxSpec(limit int) CategorySpec {
	return CategorySpec{Kind: KindGoldBox, Limit: limit}
}

func PrivateLabelSpec(limit int, imageSize string) CategorySpec {
	return CategorySpec{Kind: KindPrivateLabel, Limit: limit, ImageSize: imageSize}
}

func BestSellersSpec(categoryID string, limit int) CategorySpec {
	return CategorySpec{Kind: KindBestSellers, CategoryID: categoryID, Limit: limit}
}

// EffectiveLimit returns the limit sent on the wire.
func (s CategorySpec) EffectiveLimit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	switch s.Kind {
	case KindPrivateLabel:
		return DefaultPrivateLabelLimit
	case KindBestSellers:
		return DefaultBestSellersLimit
	default:
		return DefaultGoldBoxLimit
	}
}

// Key is a stable identifier covering every field that changes the upstream query.
func (s CategorySpec) Key() string {
	var b strings.Builder
	b.WriteString(string(s.Kind))
	if s.Kind == KindBestSellers {
		b.WriteString("/")
		b.WriteString(s.CategoryID)
	}
	b.WriteString("?limit=")
	b.WriteString(strconv.Itoa(s.EffectiveLimit()))
	if s.Kind == KindPrivateLabel && s.ImageSize != "" {
		b.WriteString("&imageSize=")
		b.WriteString(s.ImageSize)
	}
	return b.String()
}

func (s CategorySpec) String() string {
	return s.Key()
}

// Validate checks the variant is well formed.
func (s CategorySpec) Validate() error {
	switch s.Kind {
	case KindGoldBox, KindPrivateLabel:
	case KindBestSellers:
		if !isNumeric(s.CategoryID) {
			return fmt.Errorf("%w: category id %q must be numeric", ErrInvalidCategory, s.CategoryID)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, s.Kind)
	}
	if s.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidCategory, s.Limit)
	}
	return nil
}

// Product is a single listing entry. URL changes only through WithURL.
type Product struct {
	Name  string `json:"productName"`
	Price *int64 `json:"productPrice,omitempty"`
	Image string `json:"productImage"`
	URL   string `json:"productUrl"`
}

// WithURL returns a copy of p pointing at url.
func (p Product) WithURL(url string) Product {
	p.URL = url
	return p
}

// DeeplinkMapping maps original product URLs to shortened tracking URLs.
// A missing key means the original URL is kept.
type DeeplinkMapping map[string]string

// DeeplinkPair is one element of the deeplink conversion response.
type DeeplinkPair struct {
	OriginalURL string `json:"originalUrl"`
	ShortenURL  string `json:"shortenUrl"`
	LandingURL  string `json:"landingUrl,omitempty"`
}

type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// CategoryResult is the outcome of one category in a pipeline run.
// Products is empty unless Status is ok. Deeplinked counts the products
// whose URL was replaced by a tracking link.
type CategoryResult struct {
	Spec       CategorySpec `json:"spec"`
	Status     Status       `json:"status"`
	Products   []Product    `json:"products"`
	Deeplinked int          `json:"deeplinked"`
	Reason     string       `json:"reason,omitempty"`
}

func okResult(spec CategorySpec, products []Product, deeplinked int) CategoryResult {
	return CategoryResult{Spec: spec, Status: StatusOK, Products: products, Deeplinked: deeplinked}
}

// fullyDeeplinked reports whether every product carries a tracking link.
func (r CategoryResult) fullyDeeplinked() bool {
	return r.Deeplinked == len(r.Products)
}

func emptyResult(spec CategorySpec) CategoryResult {
	return CategoryResult{Spec: spec, Status: StatusEmpty, Products: []Product{}}
}

func failedResult(spec CategorySpec, reason string) CategoryResult {
	return CategoryResult{Spec: spec, Status: StatusFailed, Products: []Product{}, Reason: reason}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
