package pos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"report-manager/core/faults"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Client fetches daily consumption data from the external inventory provider.
type Client interface {
	// FetchDailyConsumption returns the raw-material consumption records for
	// a calendar date. An empty result is valid (a day with no activity).
	FetchDailyConsumption(ctx context.Context, date time.Time) ([]ConsumptionRecord, error)
}

// HTTPClient is the production Client backed by the provider HTTP API.
type HTTPClient struct {
	vault  *Vault
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a provider client with its own credential vault.
func NewClient(db *gorm.DB, cfg Config, logger *zap.Logger) *HTTPClient {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &HTTPClient{
		vault:  NewVault(db, cfg, logger),
		cfg:    cfg,
		http:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger: logger,
	}
}

// Vault exposes the underlying credential vault.
func (c *HTTPClient) Vault() *Vault {
	return c.vault
}

// FetchDailyConsumption pages through the stock movement endpoint for the
// given date and returns records in the configured product group. Pages are
// fetched sequentially; the envelope's meta.last_page drives the loop.
func (c *HTTPClient) FetchDailyConsumption(ctx context.Context, date time.Time) ([]ConsumptionRecord, error) {
	day := date.Format("2006-01-02")

	var records []ConsumptionRecord
	page := 1
	lastPage := 1

	for page <= lastPage {
		env, err := c.fetchPage(ctx, day, page)
		if err != nil {
			return nil, err
		}

		for _, rec := range env.Data {
			if rec.ProductGroupName == c.cfg.ProductGroup {
				records = append(records, rec)
			}
		}

		if env.Meta.LastPage > lastPage {
			lastPage = env.Meta.LastPage
		}
		page++
	}

	c.logger.Info("Fetched daily consumption",
		zap.String("date", day),
		zap.Int("pages", page-1),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// fetchPage requests one page of the movement endpoint. On an authorization
// failure it invalidates the cached token, re-authenticates once via the
// vault, and retries the same page once; a second authorization failure is
// terminal.
func (c *HTTPClient) fetchPage(ctx context.Context, day string, page int) (*movementEnvelope, error) {
	token, err := c.vault.Token(ctx)
	if err != nil {
		return nil, err
	}

	env, status, err := c.doMovementRequest(ctx, day, page, token)
	if status != http.StatusUnauthorized {
		return env, err
	}

	// One retry with a fresh token.
	if err := c.vault.Invalidate(ctx); err != nil {
		return nil, err
	}
	token, err = c.vault.Token(ctx)
	if err != nil {
		return nil, err
	}

	env, status, err = c.doMovementRequest(ctx, day, page, token)
	if status == http.StatusUnauthorized {
		return nil, faults.Upstream(status, "provider rejected authorization after token refresh")
	}
	return env, err
}

func (c *HTTPClient) doMovementRequest(ctx context.Context, day string, page int, token string) (*movementEnvelope, int, error) {
	params := url.Values{}
	params.Set("start_date", day)
	params.Set("end_date", day)
	params.Set("page", strconv.Itoa(page))

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/inventory/stockmovement?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, faults.Wrap(faults.KindUpstreamSync, err, "provider request failed")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, faults.Upstream(resp.StatusCode,
			"provider error: %s", strings.TrimSpace(string(body)))
	}

	var env movementEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, resp.StatusCode, faults.Wrap(faults.KindUpstreamSync, err, "malformed movement response")
	}
	return &env, resp.StatusCode, nil
}

var _ Client = (*HTTPClient)(nil)
