// Package remote fetches completion records and the regional summit list
// from the public SOTA endpoints.
//
// Every fetch is fail-soft: any failure yields an empty result, never an
// error, and nothing is retried.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/pkg/logger"
	"github.com/okian/summitgap/pkg/metrics"
)

// Endpoint names used in logs and metrics.
const (
	EndpointCompletes = "completes"
	EndpointSummits   = "summits"
	EndpointS2S       = "s2s"
)

// Defaults mirror the public endpoints.
const (
	DefaultCompletesURL = "https://api-db.sota.org.uk/admin/sota_completes_by_id"
	DefaultSummitsURL   = "https://sotl.as/api/regions"
	DefaultS2SURL       = "https://api-db.sota.org.uk/admin/s2s_completes_by_id"
	defaultTimeout      = 15 * time.Second
	userAgent           = "summitgap/1.0"
)

// Client issues read-only GETs against the three upstream endpoints.
type Client struct {
	http         *http.Client
	timeout      time.Duration
	completesURL string
	summitsURL   string
	s2sURL       string
	logger       logger.Logger
}

// New creates a client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:      defaultTimeout,
		completesURL: DefaultCompletesURL,
		summitsURL:   DefaultSummitsURL,
		s2sURL:       DefaultS2SURL,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// FetchCompleted returns the codes of every summit the user has completed.
func (c *Client) FetchCompleted(ctx context.Context, userID string) model.CodeSet {
	return c.fetchCodes(ctx, EndpointCompletes, completesURL(c.completesURL, userID))
}

// FetchCompletedS2S returns the codes of every summit the user has completed
// summit-to-summit.
func (c *Client) FetchCompletedS2S(ctx context.Context, userID string) model.CodeSet {
	return c.fetchCodes(ctx, EndpointS2S, completesURL(c.s2sURL, userID))
}

// FetchValidSummits returns the raw summit list of a region, e.g. "GM/ES",
// in upstream order. Validity filtering is left to the catalog package.
func (c *Client) FetchValidSummits(ctx context.Context, region string) []model.RawSummit {
	var records []model.RawSummit
	if err := c.fetch(ctx, EndpointSummits, regionURL(c.summitsURL, region), &records); err != nil {
		return []model.RawSummit{}
	}
	metrics.UpdateUpstreamRecords(EndpointSummits, len(records))
	if records == nil {
		records = []model.RawSummit{}
	}
	return records
}

func (c *Client) fetchCodes(ctx context.Context, endpoint, target string) model.CodeSet {
	var rows []model.Complete
	if err := c.fetch(ctx, endpoint, target, &rows); err != nil {
		return model.CodeSet{}
	}
	metrics.UpdateUpstreamRecords(endpoint, len(rows))
	set := make(model.CodeSet, len(rows))
	for _, r := range rows {
		set[r.SummitCode] = struct{}{}
	}
	return set
}

// fetch GETs target and decodes a 200 body into out. Any failure is
// reported as ErrUpstreamUnavailable after being logged and counted.
func (c *Client) fetch(ctx context.Context, endpoint, target string, out any) (err error) {
	start := time.Now()
	defer func() {
		latency := float64(time.Since(start).Milliseconds())
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeUnavailable
			c.logger.Warn(ctx, "upstream fetch failed; treating as empty",
				logger.String("endpoint", endpoint),
				logger.String("url", target),
				logger.Error(err),
			)
		} else {
			c.logger.Debug(ctx, "upstream fetch ok",
				logger.String("endpoint", endpoint),
				logger.Float64("latency_ms", latency),
			)
		}
		metrics.RecordUpstreamFetch(endpoint, outcome, latency)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrUpstreamUnavailable, err)
	}
	return nil
}

// completesURL appends id, desc and year to base, keeping any query already
// present on it.
func completesURL(base, userID string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("id", userID)
	if q.Get("desc") == "" {
		q.Set("desc", "0")
	}
	if q.Get("year") == "" {
		q.Set("year", "all")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// regionURL joins base and a region path such as "GM/ES".
func regionURL(base, region string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(region, "/ ")
}
