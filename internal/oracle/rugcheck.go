package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dexwatch/internal/observability"
)

// ratingGood is the only rating that passes the reputation gate.
const ratingGood = "good"

// RugcheckClient queries a rugcheck-style rating endpoint:
// GET {base}/api/check?token_address={addr} -> {"rating": "..."}.
type RugcheckClient struct {
	baseURL string
	client  *http.Client
}

// NewRugcheckClient creates a reputation client for the given base URL.
func NewRugcheckClient(baseURL string, opts ...Option) *RugcheckClient {
	o := newClientOptions(opts...)
	return &RugcheckClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  o.httpClient,
	}
}

// IsGood reports whether the address is rated "good". Comparison is
// case-insensitive; a missing rating field is not good.
func (c *RugcheckClient) IsGood(ctx context.Context, tokenAddress string) (bool, error) {
	start := time.Now()
	good, err := c.check(ctx, tokenAddress)
	observability.RecordOracleCall("rugcheck", callOutcome(err), time.Since(start).Seconds())
	return good, err
}

func (c *RugcheckClient) check(ctx context.Context, tokenAddress string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/check?token_address=%s", c.baseURL, url.QueryEscape(tokenAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("reputation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("reputation status %d", resp.StatusCode)
	}

	var body struct {
		Rating string `json:"rating"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode reputation response: %w", err)
	}

	return strings.EqualFold(body.Rating, ratingGood), nil
}

var _ ReputationClient = (*RugcheckClient)(nil)
