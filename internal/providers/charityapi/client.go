package charityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const listPath = "charities"

// APIError is a non-2xx answer from the charities endpoint
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("charities API returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    endpoint,
		logger:     logger.With("component", "charityapi-client"),
	}
}

// List fetches every charity in the order the API returns them
func (c *Client) List(ctx context.Context) (*ListAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath(listPath)

	c.logger.Debug("fetching charities", "url", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch charities", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var envelope ListAPIResponse
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		c.logger.Error("charities API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, apiErr
	}

	apiResp, err := decodeList(body)
	if err != nil {
		c.logger.Error("failed to decode charities response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("successfully fetched charities", "count", len(apiResp.Charities))

	return apiResp, nil
}

func decodeList(body []byte) (*ListAPIResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []CharityRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return &ListAPIResponse{Charities: records}, nil
	}

	var envelope ListAPIResponse
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
