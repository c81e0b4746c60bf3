// Package urlcheck probes the image, attachment and product URLs of catalog
// models and classifies each outcome. Unreachable URLs are data for the
// report, not errors.
package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/catalog-tools/catqa/internal/validate"
)

// Outcome classes.
const (
	ClassWorking    = "working"
	ClassRedirect   = "redirect"
	ClassBlocked    = "blocked"
	ClassNotWorking = "not-working"
	ClassTimeout    = "timeout"
	ClassFailed     = "failed"
	ClassMalformed  = "malformed"
)

// Outcome is the classification of a single probe.
type Outcome struct {
	Class  string
	Code   int
	Detail string
}

// Status renders the outcome as the human-readable cell value used in the
// result workbooks.
func (o Outcome) Status() string {
	switch o.Class {
	case ClassWorking:
		return "Working"
	case ClassRedirect:
		return fmt.Sprintf("Redirect - Status Code: %d", o.Code)
	case ClassBlocked:
		return "Blocked - Captcha Error"
	case ClassNotWorking:
		return fmt.Sprintf("Not Working - Status Code: %d", o.Code)
	case ClassTimeout:
		return "Timeout"
	case ClassMalformed:
		return "Malformed URL"
	default:
		return "Failed - " + o.Detail
	}
}

// Broken reports whether the outcome counts toward the broken-link total.
func (o Outcome) Broken() bool {
	return o.Class != ClassWorking && o.Class != ClassRedirect
}

// Config holds checker settings.
type Config struct {
	Timeout time.Duration
	Workers int
	// Rate bounds probes per second across all workers. Zero disables.
	Rate float64
}

// Checker probes URLs with a shared HTTP client. Probes are independent, so
// they run on a bounded worker group.
type Checker struct {
	client  *http.Client
	limiter *rate.Limiter
	workers int
	log     zerolog.Logger
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// New creates a Checker. Redirects are reported, not followed.
func New(cfg Config, log zerolog.Logger) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 20
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Workers)
	}
	return &Checker{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: limiter,
		workers: cfg.Workers,
		log:     log,
	}
}

// Check probes one URL. A malformed URL is classified without any I/O.
func (c *Checker) Check(ctx context.Context, url string) Outcome {
	if !validate.ValidURL(url) {
		return Outcome{Class: ClassMalformed}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Outcome{Class: ClassFailed, Detail: err.Error()}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{Class: ClassMalformed}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := c.client.Do(req)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return Outcome{Class: ClassTimeout}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return Outcome{Class: ClassTimeout}
		}
		return Outcome{Class: ClassFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return Outcome{Class: ClassWorking, Code: resp.StatusCode}
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return Outcome{Class: ClassRedirect, Code: resp.StatusCode}
	case resp.StatusCode == http.StatusForbidden:
		return Outcome{Class: ClassBlocked, Code: resp.StatusCode}
	default:
		return Outcome{Class: ClassNotWorking, Code: resp.StatusCode}
	}
}

// CheckAll probes every entry on a bounded worker group and fills in the
// outcomes positionally. Individual probe failures never fail the group.
func (c *Checker) CheckAll(ctx context.Context, entries []Entry) []Outcome {
	outcomes := make([]Outcome, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range entries {
		g.Go(func() error {
			outcomes[i] = c.Check(gctx, entries[i].URL)
			return nil
		})
	}
	_ = g.Wait()

	broken := 0
	for _, o := range outcomes {
		if o.Broken() {
			broken++
		}
	}
	c.log.Info().Int("urls", len(entries)).Int("broken", broken).Msg("url probe pass complete")
	return outcomes
}
