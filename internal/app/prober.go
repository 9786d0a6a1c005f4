package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/market-contract-tests/internal/fixtures"
	"github.com/samvad-hq/market-contract-tests/internal/logger"
	"github.com/samvad-hq/market-contract-tests/pkg/market"
	"github.com/samvad-hq/market-contract-tests/pkg/publishers"
)

// Prober issues read-only requests against the market and summarizes them
// as a publishers.Report.
type Prober struct {
	client  *market.Client
	catalog *fixtures.Catalog
	baseURL string
	fanout  *publishers.Fanout
	log     logger.Logger
}

// NewProber builds a prober. A nil fanout disables publishing.
func NewProber(client *market.Client, catalog *fixtures.Catalog, baseURL string, fanout *publishers.Fanout, log logger.Logger) *Prober {
	if log == nil {
		log = logger.NopLogger{}
	}
	if catalog == nil {
		catalog = fixtures.DefaultCatalog()
	}
	return &Prober{
		client:  client,
		catalog: catalog,
		baseURL: baseURL,
		fanout:  fanout,
		log:     log,
	}
}

// Probe lists products and reads every catalog category.
func (p *Prober) Probe(ctx context.Context) publishers.Report {
	report := publishers.NewReport(p.baseURL)

	report.Checks = append(report.Checks, p.check(market.EndpointGetProducts, "", func() (int, error) {
		resp, err := p.client.Products().GetProducts(ctx)
		if err != nil {
			return 0, err
		}
		if resp.IsSuccessful() && len(resp.Raw()) == 0 {
			return resp.Code(), fmt.Errorf("empty product list body")
		}
		return resp.Code(), nil
	}))

	for _, ct := range p.catalog.All() {
		report.Checks = append(report.Checks, p.check(market.EndpointGetCategory, fmt.Sprint(ct.ID), func() (int, error) {
			resp, err := p.client.Categories().GetCategory(ctx, ct.ID)
			if err != nil {
				return 0, err
			}
			if !resp.IsSuccessful() {
				return resp.Code(), nil
			}
			body := resp.Body()
			if len(resp.Raw()) == 0 || body == nil {
				return resp.Code(), fmt.Errorf("empty category %d body", ct.ID)
			}
			if body.Title != ct.Title {
				return resp.Code(), fmt.Errorf("category %d title %q, want %q", ct.ID, body.Title, ct.Title)
			}
			return resp.Code(), nil
		}))
	}

	report.FinishedAt = time.Now().UTC()
	p.log.InfoObj("probe completed", "probe_meta", map[string]any{
		"run_id": report.RunID,
		"checks": len(report.Checks),
		"failed": report.Failed(),
	})
	return report
}

// Publish forwards the report to every configured sink and returns how many
// accepted it.
func (p *Prober) Publish(ctx context.Context, report publishers.Report) (int, error) {
	if p.fanout.Size() == 0 {
		p.log.WarnObj("no publishers configured; report not delivered", "run_id", report.RunID)
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, d := range p.fanout.Deliver(ctx, report) {
		fields := map[string]any{
			"run_id":       report.RunID,
			"publisher_id": d.PublisherID,
			"type":         d.Type,
			"elapsed_ms":   d.Elapsed.Milliseconds(),
		}
		if d.Err != nil {
			fields["error"] = d.Err.Error()
			p.log.ErrorObj("report delivery failed", "publish_delivery", fields)
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", d.Type, d.PublisherID, d.Err))
			continue
		}
		p.log.InfoObj("report delivered", "publish_delivery", fields)
		delivered++
	}
	if err := errors.Join(errs...); err != nil {
		return delivered, fmt.Errorf("publish report: %w", err)
	}
	return delivered, nil
}

func (p *Prober) check(ep market.Endpoint, id string, fn func() (int, error)) publishers.Check {
	start := time.Now()
	code, err := fn()
	c := publishers.Check{
		Name:       ep.Name,
		Method:     ep.Method,
		Path:       strings.ReplaceAll(ep.Path, "{id}", id),
		StatusCode: code,
		ElapsedMs:  time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.Error = err.Error()
	} else if code < 200 || code >= 300 {
		c.Error = fmt.Sprintf("unexpected status %d", code)
	}
	c.OK = c.Error == ""
	return c
}
