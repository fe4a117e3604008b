// Package leads talks to the Supabase leads table and renders markdown
// snapshots of it for the agent memory file. Everything here is best
// effort: a failed fetch is logged by the caller and never blocks boot.
package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// fetchTimeout bounds the single startup GET. No retries.
const fetchTimeout = 15 * time.Second

// selectColumns is the fixed projection requested from PostgREST.
// created_at is needed for the report buckets even though the index table
// does not show it.
const selectColumns = "lead_name,mobile_number,project,status,priority,updated_at,created_at"

// Lead is one row of the leads table. Fields mirror the PostgREST JSON.
type Lead struct {
	Name      string `json:"lead_name"`
	Phone     string `json:"mobile_number"`
	Project   string `json:"project"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	UpdatedAt string `json:"updated_at"`
	CreatedAt string `json:"created_at"`
}

// Client fetches leads from a Supabase project via its REST endpoint.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	limit   int
	http    *http.Client
}

// NewClient creates a Client for baseURL (no trailing slash) and table.
func NewClient(baseURL, apiKey, table string, limit int) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		table:   table,
		limit:   limit,
		http:    &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch performs the single GET, newest first.
func (c *Client) Fetch(ctx context.Context) ([]Lead, error) {
	q := url.Values{}
	q.Set("select", selectColumns)
	q.Set("order", "created_at.desc")
	if c.limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", c.limit))
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(c.table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// PostgREST wants the key both as apikey and as a bearer token.
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leads: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch leads: HTTP %d: %s", resp.StatusCode, body)
	}

	var out []Lead
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	return out, nil
}
