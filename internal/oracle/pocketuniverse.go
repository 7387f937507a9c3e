package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dexwatch/internal/observability"
)

// PocketUniverseClient probes a fake-volume endpoint:
// POST {base}/v1/check_volume -> {"is_fake_volume": bool, "reason": "..."}.
type PocketUniverseClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPocketUniverseClient creates a fake-volume client. apiKey may be
// empty; the X-API-Key header is only sent when it is set.
func NewPocketUniverseClient(baseURL, apiKey string, opts ...Option) *PocketUniverseClient {
	o := newClientOptions(opts...)
	return &PocketUniverseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  o.httpClient,
	}
}

// CheckVolume submits the pair's reported figures and returns the
// oracle's verdict.
func (c *PocketUniverseClient) CheckVolume(ctx context.Context, check VolumeCheck) (VolumeVerdict, error) {
	start := time.Now()
	verdict, err := c.checkVolume(ctx, check)
	observability.RecordOracleCall("pocketuniverse", callOutcome(err), time.Since(start).Seconds())
	return verdict, err
}

func (c *PocketUniverseClient) checkVolume(ctx context.Context, check VolumeCheck) (VolumeVerdict, error) {
	body, err := json.Marshal(check)
	if err != nil {
		return VolumeVerdict{}, fmt.Errorf("marshal volume check: %w", err)
	}

	endpoint := c.baseURL + "/v1/check_volume"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return VolumeVerdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return VolumeVerdict{}, fmt.Errorf("volume check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VolumeVerdict{}, fmt.Errorf("volume check status %d", resp.StatusCode)
	}

	var out struct {
		IsFakeVolume bool   `json:"is_fake_volume"`
		Reason       string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return VolumeVerdict{}, fmt.Errorf("decode volume check response: %w", err)
	}

	return VolumeVerdict{IsFake: out.IsFakeVolume, Reason: out.Reason}, nil
}

var _ VolumeClient = (*PocketUniverseClient)(nil)
