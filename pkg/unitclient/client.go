// Package unitclient is a typed client for the unit service HTTP API.
package unitclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/pkg/httpclient"
)

const (
	convertPath = "/convert"
	bulkPath    = "/convert/bulk"
	infoPath    = "/info"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// AsStatusError extracts a *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Client calls the unit service rooted at a base URL such as http://host/api/v1/units.
type Client struct {
	baseURL string
	http    httpclient.Client
}

// New returns a Client. A nil http client falls back to a resty client without timeout.
func New(baseURL string, client httpclient.Client) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    client,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Convert requests a single conversion.
func (c *Client) Convert(ctx context.Context, value float64, fromUnit, toUnit string) (domain.ConversionResult, error) {
	query := map[string]string{
		"value":    strconv.FormatFloat(value, 'g', -1, 64),
		"fromUnit": fromUnit,
		"toUnit":   toUnit,
	}
	resp, err := c.http.Get(ctx, c.baseURL+convertPath, query, acceptJSON())
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("convert request: %w", err)
	}

	var out domain.ConversionResult
	if err := decode(resp, &out); err != nil {
		return domain.ConversionResult{}, err
	}
	return out, nil
}

// ConvertBulk submits conversions in one call; the result order matches the service response.
func (c *Client) ConvertBulk(ctx context.Context, conversions []domain.ConversionRequest) ([]domain.ConversionResult, error) {
	if conversions == nil {
		conversions = []domain.ConversionRequest{}
	}
	body := domain.BulkConversionRequest{Conversions: conversions}
	resp, err := c.http.PostJSON(ctx, c.baseURL+bulkPath, body, acceptJSON())
	if err != nil {
		return nil, fmt.Errorf("bulk convert request: %w", err)
	}

	var out []domain.ConversionResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnitInfo lists the supported units and their valid ranges.
func (c *Client) UnitInfo(ctx context.Context) ([]domain.UnitInfo, error) {
	resp, err := c.http.Get(ctx, c.baseURL+infoPath, nil, acceptJSON())
	if err != nil {
		return nil, fmt.Errorf("unit info request: %w", err)
	}

	var out []domain.UnitInfo
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func acceptJSON() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

func decode(resp httpclient.Response, out any) error {
	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return &StatusError{StatusCode: code, Body: resp.Body()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
