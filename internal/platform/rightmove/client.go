// Package rightmove wraps the third-party property data API used for
// postcode lookups and price estimates.
package rightmove

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PropertyRecord is one known property returned for a postcode lookup.
type PropertyRecord struct {
	AddressLine   string `json:"address_line"`
	PropertyType  string `json:"property_type"`
	Bedrooms      int    `json:"bedrooms"`
	TenureType    string `json:"tenure_type"`
	EstimateValue int64  `json:"estimate_value"`
}

// LookupResult is the upstream payload for one postcode.
type LookupResult struct {
	Postcode   string           `json:"postcode"`
	Properties []PropertyRecord `json:"properties"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LookupPostcode fetches the property records for a postcode.
func (c *Client) LookupPostcode(ctx context.Context, postcode string) (*LookupResult, error) {
	reqBody, err := json.Marshal(map[string]string{"postcode": postcode})
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/properties/lookup", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build lookup request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postcode lookup failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read lookup response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("lookup status %d: %s", resp.StatusCode, string(raw))
	}

	var result LookupResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse lookup response failed: %w", err)
	}
	return &result, nil
}
