package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/internal/rate"
)

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// Observer is notified once per attempt. status is 0 when no response arrived.
type Observer func(req *http.Request, status int, elapsed time.Duration)

// Executor handles rate-limited HTTP execution with optional retries.
// With retryMax 0 every request is attempted exactly once.
type Executor struct {
	logger       *zap.Logger
	rateMgr      *rate.Manager
	http         *http.Client
	retryMax     int
	venueTag     string
	errorHandler func(status int, body []byte) error
	observer     Observer
}

// New creates an Executor. errorHandler is called on the final non-2xx response
// to produce a venue-specific error. If nil, a *StatusError is returned.
func New(
	logger *zap.Logger,
	rateMgr *rate.Manager,
	httpClient *http.Client,
	retryMax int,
	venueTag string,
	errorHandler func(status int, body []byte) error,
) *Executor {
	if retryMax < 0 {
		retryMax = 0
	}
	return &Executor{
		logger:       logger,
		rateMgr:      rateMgr,
		http:         httpClient,
		retryMax:     retryMax,
		venueTag:     venueTag,
		errorHandler: errorHandler,
	}
}

// SetObserver installs a per-attempt hook, typically used for metrics.
func (e *Executor) SetObserver(o Observer) {
	e.observer = o
}

// Do executes req and returns the raw body of a 2xx response.
// Transport failures yield *NetworkError; non-2xx responses yield the
// errorHandler result or *StatusError. 5xx and transport failures are retried
// up to retryMax times; 4xx never is.
func (e *Executor) Do(ctx context.Context, req *http.Request, rateLimitKey string) ([]byte, error) {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, rateLimitKey); err != nil {
			return nil, &NetworkError{Venue: e.venueTag, URL: req.URL.String(), Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	var (
		lastStatus int
		lastBody   []byte
		lastErr    error
	)
	for attempt := 0; attempt <= e.retryMax; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, Backoff(attempt-1)); err != nil {
				return nil, &NetworkError{Venue: e.venueTag, URL: req.URL.String(), Err: err}
			}
			if err := rewind(req); err != nil {
				return nil, &NetworkError{Venue: e.venueTag, URL: req.URL.String(), Err: err}
			}
		}

		start := time.Now()
		resp, err := e.http.Do(req)
		if err != nil {
			e.observe(req, 0, time.Since(start))
			lastErr, lastStatus = err, 0
			e.logger.Warn(e.venueTag+".http_failed",
				zap.String("url", req.URL.Redacted()),
				zap.Error(err),
				zap.Int("attempt", attempt))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		elapsed := time.Since(start)
		e.observe(req, resp.StatusCode, elapsed)

		if readErr != nil {
			lastErr, lastStatus = fmt.Errorf("read body: %w", readErr), 0
			continue
		}

		if resp.StatusCode >= 500 {
			e.logger.Warn(e.venueTag+".server_error",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.Redacted()),
				zap.Duration("latency", elapsed),
				zap.Int("attempt", attempt))
			lastStatus, lastBody, lastErr = resp.StatusCode, body, nil
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, e.statusError(resp.StatusCode, body)
		}

		e.logger.Debug(e.venueTag+".http_success",
			zap.String("url", req.URL.Redacted()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", elapsed))
		return body, nil
	}

	if lastStatus != 0 {
		return nil, e.statusError(lastStatus, lastBody)
	}
	return nil, &NetworkError{Venue: e.venueTag, URL: req.URL.String(), Err: lastErr}
}

func (e *Executor) statusError(status int, body []byte) error {
	if e.errorHandler != nil {
		return e.errorHandler(status, body)
	}
	return &StatusError{Venue: e.venueTag, Status: status, Body: body}
}

func (e *Executor) observe(req *http.Request, status int, elapsed time.Duration) {
	if e.observer != nil {
		e.observer(req, status, elapsed)
	}
}

// rewind restores a request body consumed by a previous attempt.
func rewind(req *http.Request) error {
	if req.Body == nil || req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewind body: %w", err)
	}
	req.Body = body
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
