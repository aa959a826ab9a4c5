package sta

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configures the SensorThings client.
type Options struct {
	// Endpoint is the API base endpoint, e.g. http://host/istsos4/v1.1.
	Endpoint string
	// Token is an optional pre-issued Bearer token.
	Token string
	// Username and Password enable the istSOS login exchange when no
	// token is configured.
	Username string
	Password string
	// Timeout bounds every upstream request.
	Timeout time.Duration
}

// Client fetches sensor metadata from a SensorThings API endpoint.
// It pages through the Things collection sequentially and performs the
// optional credential login exchange lazily on first use.
type Client struct {
	endpoint string
	token    string
	username string
	password string
	httpc    *http.Client
	logger   *zap.Logger
}

// NewClient creates a client with strict transport timeouts.
func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Client{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		token:    opts.Token,
		username: opts.Username,
		password: opts.Password,
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// listPage is the paginated listing envelope of the SensorThings API.
type listPage struct {
	Value    []Thing `json:"value"`
	NextLink string  `json:"@iot.nextLink"`
}

// FetchThings retrieves every thing with its expanded locations,
// datastreams, sensors, and observed properties, following @iot.nextLink
// until the collection is exhausted. No retries are performed.
func (c *Client) FetchThings(ctx context.Context) ([]Thing, error) {
	token, err := c.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	pageURL := c.endpoint + "/Things?" + expandQuery
	var things []Thing

	for pageURL != "" {
		page, err := c.fetchPage(ctx, pageURL, token)
		if err != nil {
			return nil, err
		}
		things = append(things, page.Value...)
		pageURL = page.NextLink
	}

	c.logger.Debug("Fetched things from upstream", zap.Int("count", len(things)))
	return things, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL, token string) (*listPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, pageURL)
	}

	// UseNumber keeps upstream ids lossless instead of forcing float64.
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var page listPage
	if err := decoder.Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode listing page: %w", err)
	}
	return &page, nil
}

// resolveToken returns the configured token, performing the login
// exchange once when only credentials are configured.
func (c *Client) resolveToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.username == "" || c.password == "" {
		return "", nil
	}

	token, err := c.Login(ctx, c.username, c.password)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// Login performs the istSOS password grant and returns the access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"username":   {username},
		"password":   {password},
		"grant_type": {"password"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/Login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("login rejected with status %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("login succeeded but no access_token was returned")
	}

	return payload.AccessToken, nil
}
