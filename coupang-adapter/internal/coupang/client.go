package coupang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/metrics"
	"github.com/Checker-Finance/affiliate-adapters/internal/httpclient"
	"github.com/Checker-Finance/affiliate-adapters/internal/rate"
)

const (
	DefaultBaseURL = "https://api-gateway.coupang.com"

	productsPath = "/v2/providers/affiliate_open_api/apis/openapi/v1/products"
	deeplinkPath = "/v2/links"
	contentType  = "application/json;charset=UTF-8"

	resourceGoldBox      = "goldbox"
	resourcePrivateLabel = "coupangPL"
	resourceBestSellers  = "bestcategories"
	resourceDeeplink     = "links"
)

// ClientOptions tunes the outbound HTTP behaviour.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	RetryMax   int
	HTTPClient *http.Client
}

// Client issues signed requests against the Coupang Partners open API.
type Client struct {
	logger  *zap.Logger
	exec    *httpclient.Executor
	signer  *Signer
	baseURL string
	subID   string
	rateKey string
}

// NewClient constructs a Coupang client. A zero Timeout means 10s.
func NewClient(logger *zap.Logger, creds Credentials, signer *Signer, rateMgr *rate.Manager, opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	exec := httpclient.New(logger, rateMgr, httpClient, opts.RetryMax, "coupang", func(status int, body []byte) error {
		logger.Warn("coupang.client_error",
			zap.Int("status", status),
			zap.ByteString("body", truncate(body, 512)))
		return &httpclient.StatusError{Venue: "coupang", Status: status, Body: body}
	})
	exec.SetObserver(func(req *http.Request, status int, elapsed time.Duration) {
		endpoint := endpointOf(req.URL.Path)
		label := "error"
		if status > 0 {
			label = strconv.Itoa(status)
		}
		metrics.IncCoupangRequest(endpoint, req.Method, label)
		metrics.CoupangRequestDuration.WithLabelValues(endpoint, req.Method).Observe(elapsed.Seconds())
	})

	return &Client{
		logger:  logger,
		exec:    exec,
		signer:  signer,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		subID:   creds.SubID,
		rateKey: creds.AccessKey,
	}
}

// GoldBox lists today's goldbox deals.
// GET {prefix}/products/goldbox?limit=&subId=
func (c *Client) GoldBox(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultGoldBoxLimit
	}
	return c.getProducts(ctx, resourceGoldBox, productsPath+"/goldbox", c.query(limit))
}

// PrivateLabel lists Coupang private-label products.
// GET {prefix}/products/coupangPL?limit=&subId=&imageSize=
func (c *Client) PrivateLabel(ctx context.Context, limit int, imageSize string) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultPrivateLabelLimit
	}
	q := c.query(limit)
	if imageSize != "" {
		q += "&imageSize=" + url.QueryEscape(imageSize)
	}
	return c.getProducts(ctx, resourcePrivateLabel, productsPath+"/coupangPL", q)
}

// BestSellers lists the best sellers of one category.
// GET {prefix}/products/bestcategories/{categoryId}?limit=&subId=
func (c *Client) BestSellers(ctx context.Context, categoryID string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultBestSellersLimit
	}
	path := productsPath + "/bestcategories/" + url.PathEscape(categoryID)
	return c.getProducts(ctx, resourceBestSellers, path, c.query(limit))
}

// Fetch dispatches on the spec's kind.
func (c *Client) Fetch(ctx context.Context, spec CategorySpec) ([]Product, error) {
	switch spec.Kind {
	case KindGoldBox:
		return c.GoldBox(ctx, spec.Limit)
	case KindPrivateLabel:
		return c.PrivateLabel(ctx, spec.Limit, spec.ImageSize)
	case KindBestSellers:
		return c.BestSellers(ctx, spec.CategoryID, spec.Limit)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, spec.Kind)
	}
}

type deeplinkRequest struct {
	CoupangURLs []string `json:"coupangUrls"`
	SubID       string   `json:"subId,omitempty"`
}

// ConvertDeeplinks converts product URLs into tracked short links.
// POST /v2/links, signed with an empty query. Elements missing either URL are dropped.
func (c *Client) ConvertDeeplinks(ctx context.Context, urls []string) ([]DeeplinkPair, error) {
	body, err := json.Marshal(deeplinkRequest{CoupangURLs: urls, SubID: c.subID})
	if err != nil {
		return nil, fmt.Errorf("marshal deeplink request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+deeplinkPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, deeplinkPath, "")

	respBody, err := c.exec.Do(ctx, req, c.rateKey)
	if err != nil {
		return nil, translate(resourceDeeplink, err)
	}

	items, err := decodeEnvelope(resourceDeeplink, respBody)
	if err != nil {
		metrics.IncShapeError(resourceDeeplink)
		return nil, err
	}

	pairs := make([]DeeplinkPair, 0, len(items))
	for _, raw := range items {
		if pair, ok := toDeeplinkPair(raw); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

// getProducts performs a signed GET and maps the envelope into products.
// A shape problem is reported as an empty list.
func (c *Client) getProducts(ctx context.Context, resource, path, query string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, path, query)

	body, err := c.exec.Do(ctx, req, c.rateKey)
	if err != nil {
		return nil, translate(resource, err)
	}

	items, err := decodeEnvelope(resource, body)
	if err != nil {
		c.logger.Warn("coupang.shape_error",
			zap.String("resource", resource),
			zap.Error(err))
		metrics.IncShapeError(resource)
		return []Product{}, nil
	}

	products := make([]Product, 0, len(items))
	for i, raw := range items {
		p, err := toProduct(raw)
		if err != nil {
			c.logger.Warn("coupang.product_rejected",
				zap.String("resource", resource),
				zap.Int("index", i),
				zap.String("reason", err.Error()))
			metrics.IncProductRejected(resource, err.Error())
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// query renders limit then subId, in that order.
func (c *Client) query(limit int) string {
	q := "limit=" + strconv.Itoa(limit)
	if c.subID != "" {
		q += "&subId=" + url.QueryEscape(c.subID)
	}
	return q
}

func (c *Client) setHeaders(req *http.Request, path, query string) {
	req.Header.Set("Authorization", c.signer.Sign(req.Method, path, query))
	req.Header.Set("Content-Type", contentType)
}

// translate maps executor errors onto the coupang error taxonomy.
func translate(resource string, err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &UpstreamHTTPError{Resource: resource, Status: statusErr.Status, Body: statusErr.Body}
	}
	var netErr *httpclient.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Resource: resource, Err: netErr.Err}
	}
	return &NetworkError{Resource: resource, Err: err}
}

// endpointOf reduces a request path to a low-cardinality metrics label.
func endpointOf(path string) string {
	if path == deeplinkPath {
		return resourceDeeplink
	}
	rest := strings.TrimPrefix(path, productsPath+"/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
