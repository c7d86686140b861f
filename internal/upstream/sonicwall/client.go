// Package sonicwall implements a digest-authenticating client for the
// SonicOS management API. A client instance serves a single request scope:
// authenticate, query, close.
package sonicwall

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmas-wbpl/sonicwall/internal/config"
	"github.com/dmas-wbpl/sonicwall/internal/digest"
	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
)

const authEndpoint = "/api/sonicos/auth"

// contentFilteringEndpoints are tried in order; SonicOS firmware versions
// expose the report under different paths.
var contentFilteringEndpoints = []string{
	"/api/sonicos/content-filtering/status",
	"/api/sonicos/reporting/content-filtering",
	"/api/sonicos/cfs/status",
	"/api/sonicos/security-services/content-filtering",
}

type state int

const (
	stateUnauthenticated state = iota
	stateChallenged
	stateAuthenticated
	stateFailed
	stateSessionClosed
)

// Client holds the authentication state for one management session. The
// Authorization header computed during the handshake is reused unmodified
// for every subsequent call until Close.
type Client struct {
	baseURL    string
	apiVersion string
	username   string
	password   string
	httpClient *http.Client
	logger     *logger.Logger

	state     state
	authValue string
}

// New creates a client from the firewall configuration. TLS certificate
// verification follows the VerifySSL flag; appliances commonly run with
// self-signed certificates.
func New(cfg config.SonicWall, logger *logger.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifySSL},
	}

	return &Client{
		baseURL:    fmt.Sprintf("https://%s:%d", cfg.Host, cfg.Port),
		apiVersion: cfg.APIVersion,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}
}

// Authenticate runs the three-step handshake: probe for a challenge, answer
// it, then start a management session. Every failure collapses to false;
// retrying is the caller's decision.
func (c *Client) Authenticate(ctx context.Context) bool {
	if err := c.authenticate(ctx); err != nil {
		c.state = stateFailed
		c.logger.Error("sonicwall client: authentication failed",
			"error", err.Error())
		return false
	}
	return true
}

func (c *Client) authenticate(ctx context.Context) error {
	// Step 1: an anonymous probe must come back 401 with a challenge.
	probe, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+authEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	probe.Header.Set("Accept", "application/json")
	probe.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(probe)
	if err != nil {
		return fmt.Errorf("challenge probe failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("expected 401 with auth challenge, got %d", resp.StatusCode)
	}
	challengeHeader := resp.Header.Get("WWW-Authenticate")
	if challengeHeader == "" {
		return fmt.Errorf("no WWW-Authenticate header in response")
	}
	c.state = stateChallenged

	challenge := digest.ParseHeader(challengeHeader)
	authValue := digest.AuthorizationHeader(challenge, c.username, c.password, http.MethodPost, authEndpoint)

	// Step 2: answer the challenge with an empty JSON body.
	auth, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authEndpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("failed to build auth request: %w", err)
	}
	c.setAuthHeaders(auth, authValue)

	resp, err = c.httpClient.Do(auth)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed: %d", resp.StatusCode)
	}
	c.authValue = authValue
	c.state = stateAuthenticated

	// Step 3: start the management session, no body at all.
	mgmt, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sonicos/start-management", nil)
	if err != nil {
		return fmt.Errorf("failed to build start-management request: %w", err)
	}
	c.setAuthHeaders(mgmt, authValue)

	resp, err = c.httpClient.Do(mgmt)
	if err != nil {
		return fmt.Errorf("start-management request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to start management session: %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) setAuthHeaders(req *http.Request, authValue string) {
	req.Header.Set("Authorization", authValue)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("X-SONICOS-API-VERSION", c.apiVersion)
}

// get fetches path with the stored authorization and returns the raw body
// of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.setAuthHeaders(req, c.authValue)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

func (c *Client) getPayload(ctx context.Context, path string) (model.ReportPayload, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var payload model.ReportPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) SecurityServicesStatus(ctx context.Context) (model.ReportPayload, error) {
	return c.getPayload(ctx, "/api/sonicos/reporting/status/security-services")
}

func (c *Client) GatewayAntivirusStatus(ctx context.Context) (model.ReportPayload, error) {
	return c.getPayload(ctx, "/api/sonicos/reporting/gateway-antivirus")
}

func (c *Client) IntrusionPreventionStatus(ctx context.Context) (model.ReportPayload, error) {
	return c.getPayload(ctx, "/api/sonicos/reporting/intrusion-prevention")
}

func (c *Client) BotnetStatus(ctx context.Context) (model.ReportPayload, error) {
	return c.getPayload(ctx, "/api/sonicos/reporting/botnet/status")
}

func (c *Client) AntiSpywareStatus(ctx context.Context) (model.ReportPayload, error) {
	return c.getPayload(ctx, "/api/sonicos/reporting/anti-spyware")
}

// ContentFilteringStatus probes the candidate endpoints in order and
// returns the first successful body, typed when it matches the known report
// shape and opaque otherwise.
func (c *Client) ContentFilteringStatus(ctx context.Context) (model.ContentFilteringStatus, error) {
	for _, endpoint := range contentFilteringEndpoints {
		body, err := c.get(ctx, endpoint)
		if err != nil {
			c.logger.Debug("sonicwall client: content filtering endpoint failed",
				"endpoint", endpoint,
				"error", err.Error())
			continue
		}
		return classifyContentFiltering(body)
	}
	return model.ContentFilteringStatus{}, fmt.Errorf("all content filtering endpoints failed")
}

// classifyContentFiltering decodes the body into the typed report when
// every field is recognized, and falls back to the opaque arm otherwise.
func classifyContentFiltering(body []byte) (model.ContentFilteringStatus, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()

	var report model.ContentFilteringReport
	if err := decoder.Decode(&report); err == nil {
		return model.ContentFilteringStatus{Parsed: &report}, nil
	}

	var extra model.ReportPayload
	if err := json.Unmarshal(body, &extra); err != nil {
		return model.ContentFilteringStatus{}, fmt.Errorf("failed to decode content filtering response: %w", err)
	}
	return model.ContentFilteringStatus{Extra: extra}, nil
}

// Close tears down the management session. Safe to call regardless of the
// handshake outcome.
func (c *Client) Close(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+authEndpoint, nil)
	if err != nil {
		c.logger.Error("sonicwall client: failed to build close request",
			"error", err.Error())
		return false
	}
	c.setAuthHeaders(req, c.authValue)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sonicwall client: failed to close session",
			"error", err.Error())
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.state = stateSessionClosed
	return resp.StatusCode == http.StatusOK
}
