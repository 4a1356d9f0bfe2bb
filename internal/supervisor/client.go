// Package supervisor talks to the Home Assistant Supervisor REST API.
package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/service"
)

const maxResponseBytes = 4 << 20

// APIError is a failed Supervisor call: transport-level success but a non-2xx
// status or a result other than "ok".
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supervisor %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("supervisor %s: %s", e.Endpoint, e.Message)
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient service.HTTPClient
	// FetchTimeout bounds read calls. Update calls run under the caller's
	// context only: a Core update can take minutes.
	FetchTimeout time.Duration
}

func New(baseURL, token string, client service.HTTPClient) *Client {
	if client == nil {
		client = service.NewHTTPClient(0)
	}
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Token:        token,
		HTTPClient:   client,
		FetchTimeout: 30 * time.Second,
	}
}

func (c *Client) Info(ctx context.Context) (*Info, error) {
	var out Info
	if err := c.fetch(ctx, "/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CoreInfo(ctx context.Context) (*VersionInfo, error) {
	var out VersionInfo
	if err := c.fetch(ctx, "/core/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OSInfo(ctx context.Context) (*VersionInfo, error) {
	var out VersionInfo
	if err := c.fetch(ctx, "/os/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SupervisorInfo(ctx context.Context) (*SupervisorInfo, error) {
	var out SupervisorInfo
	if err := c.fetch(ctx, "/supervisor/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddonChangelog returns the raw changelog markdown of an add-on.
func (c *Client) AddonChangelog(ctx context.Context, slug string) (string, error) {
	endpoint := "/addons/" + url.PathEscape(slug) + "/changelog"
	ctx, cancel := c.withFetchTimeout(ctx)
	defer cancel()

	req, err := service.NewJSONRequest(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", endpoint, err)
	}
	body, err := service.ReadLimited(resp, maxResponseBytes)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apiErrorFrom(endpoint, resp.StatusCode, body)
	}
	return string(body), nil
}

func (c *Client) UpdateCore(ctx context.Context, version string, backup bool) error {
	return c.call(ctx, http.MethodPost, "/core/update", updateCoreRequest{Version: version, Backup: backup}, nil)
}

func (c *Client) UpdateOS(ctx context.Context, version string) error {
	return c.call(ctx, http.MethodPost, "/os/update", updateOSRequest{Version: version}, nil)
}

func (c *Client) UpdateSupervisor(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/supervisor/update", nil, nil)
}

func (c *Client) UpdateAddon(ctx context.Context, slug string, backup bool) error {
	endpoint := "/addons/" + url.PathEscape(slug) + "/update"
	return c.call(ctx, http.MethodPost, endpoint, updateAddonRequest{Backup: backup}, nil)
}

func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := c.withFetchTimeout(ctx)
	defer cancel()
	return c.call(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.FetchTimeout)
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req, err := service.NewJSONRequest(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return err
	}
	c.authorize(req)

	logger.Debug("supervisor: %s %s", method, endpoint)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	data, err := service.ReadLimited(resp, maxResponseBytes)
	if err != nil {
		return fmt.Errorf("read %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFrom(endpoint, resp.StatusCode, data)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if env.Result != "ok" {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", endpoint, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func apiErrorFrom(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{Endpoint: endpoint, Status: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		apiErr.Message = env.Message
	} else if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 256 {
		apiErr.Message = msg
	}
	return apiErr
}
