package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// API Docs: https://ip-api.com/docs/api:json
// Sample request: http://ip-api.com/json/24.48.0.1?fields=status,message,country,city,lat,lon
const (
	baseURL = "http://ip-api.com/json"
	fields  = "status,message,query,country,countryCode,region,regionName,city,lat,lon,timezone"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an IP geolocation client. An empty endpoint selects the
// public ip-api.com service.
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = baseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(endpoint, "/"),
		logger:     logger.With("component", "ipapi-client"),
	}
}

// Lookup geolocates ip. An empty ip asks the service to locate the caller.
// A response with Status "fail" is returned without error; callers decide how
// to surface its Message.
func (c *Client) Lookup(ctx context.Context, ip string) (*LookupAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if ip != "" {
		u = u.JoinPath(ip)
	}
	q := u.Query()
	q.Set("fields", fields)
	u.RawQuery = q.Encode()

	c.logger.Debug("fetching IP geolocation", "ip", ip, "url", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch IP geolocation", "ip", ip, "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("IP geolocation API returned error",
			"status_code", resp.StatusCode,
			"ip", ip,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp LookupAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode IP geolocation response", "ip", ip, "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("fetched IP geolocation",
		"ip", ip,
		"status", apiResp.Status,
		"city", apiResp.City,
	)

	return &apiResp, nil
}
