package service

import (
	"context"
	"fmt"

	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// FirewallClient drives one authenticated session against the firewall
// appliance. A client is used for a single request scope and closed
// afterwards.
type FirewallClient interface {
	Authenticate(ctx context.Context) bool
	SecurityServicesStatus(ctx context.Context) (model.ReportPayload, error)
	GatewayAntivirusStatus(ctx context.Context) (model.ReportPayload, error)
	IntrusionPreventionStatus(ctx context.Context) (model.ReportPayload, error)
	BotnetStatus(ctx context.Context) (model.ReportPayload, error)
	AntiSpywareStatus(ctx context.Context) (model.ReportPayload, error)
	ContentFilteringStatus(ctx context.Context) (model.ContentFilteringStatus, error)
	Close(ctx context.Context) bool
}

// FirewallClientFactory builds a fresh client per request. Upstream
// authorization state never outlives one request.
type FirewallClientFactory func() FirewallClient

// Report proxies read-only status queries to the firewall. Each query runs
// the full handshake on a new client and tears the session down afterwards.
type Report struct {
	newClient FirewallClientFactory
	logger    *logger.Logger
}

func NewReport(newClient FirewallClientFactory, logger *logger.Logger) *Report {
	return &Report{
		newClient: newClient,
		logger:    logger,
	}
}

// withClient runs fn on an authenticated client, always closing the
// upstream session before returning, handshake outcome included.
func (s *Report) withClient(ctx context.Context, fn func(FirewallClient) error) error {
	client := s.newClient()
	defer client.Close(ctx)

	if !client.Authenticate(ctx) {
		s.logger.Error("Report service: firewall authentication failed")
		return model.ErrUpstreamAuth
	}

	return fn(client)
}

func (s *Report) query(ctx context.Context, name string, fn func(context.Context, FirewallClient) (model.ReportPayload, error)) (model.ReportPayload, error) {
	var payload model.ReportPayload
	err := s.withClient(ctx, func(client FirewallClient) error {
		var err error
		payload, err = fn(ctx, client)
		if err != nil {
			s.logger.Error("Report service: query failed",
				"report", name,
				"error", err.Error())
			return fmt.Errorf("%w: %s", model.ErrUpstreamQuery, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Report) SecurityServicesStatus(ctx context.Context) (model.ReportPayload, error) {
	return s.query(ctx, "security-services", func(ctx context.Context, c FirewallClient) (model.ReportPayload, error) {
		return c.SecurityServicesStatus(ctx)
	})
}

func (s *Report) GatewayAntivirusStatus(ctx context.Context) (model.ReportPayload, error) {
	return s.query(ctx, "gateway-antivirus", func(ctx context.Context, c FirewallClient) (model.ReportPayload, error) {
		return c.GatewayAntivirusStatus(ctx)
	})
}

func (s *Report) IntrusionPreventionStatus(ctx context.Context) (model.ReportPayload, error) {
	return s.query(ctx, "intrusion-prevention", func(ctx context.Context, c FirewallClient) (model.ReportPayload, error) {
		return c.IntrusionPreventionStatus(ctx)
	})
}

func (s *Report) BotnetStatus(ctx context.Context) (model.ReportPayload, error) {
	return s.query(ctx, "botnet", func(ctx context.Context, c FirewallClient) (model.ReportPayload, error) {
		return c.BotnetStatus(ctx)
	})
}

func (s *Report) AntiSpywareStatus(ctx context.Context) (model.ReportPayload, error) {
	return s.query(ctx, "anti-spyware", func(ctx context.Context, c FirewallClient) (model.ReportPayload, error) {
		return c.AntiSpywareStatus(ctx)
	})
}

func (s *Report) ContentFilteringStatus(ctx context.Context) (model.ContentFilteringStatus, error) {
	var status model.ContentFilteringStatus
	err := s.withClient(ctx, func(client FirewallClient) error {
		var err error
		status, err = client.ContentFilteringStatus(ctx)
		if err != nil {
			s.logger.Error("Report service: query failed",
				"report", "content-filtering",
				"error", err.Error())
			return fmt.Errorf("%w: content-filtering", model.ErrUpstreamQuery)
		}
		return nil
	})
	if err != nil {
		return model.ContentFilteringStatus{}, err
	}
	return status, nil
}
