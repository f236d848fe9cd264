package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrScraperFailure marks a scraper run that must fail the whole search:
// the process could not be started, exited non-zero, or wrote output that
// cannot be decoded.
var ErrScraperFailure = errors.New("scraper failure")

// RawJob is one record from a scraper's output file. Records without a link
// or description are dropped at the gateway before ingestion.
type RawJob struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      string `json:"budget"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
	ProjectType string `json:"projectType"`
}

func (r RawJob) Valid() bool {
	return r.Link != "" && r.Description != ""
}

type Scraper interface {
	Source() string
	Scrape(ctx context.Context, topic string, minPrice int) ([]RawJob, error)
}

// Gateway fans a search out to every configured scraper concurrently and
// joins all of them before returning. If any scraper fails, the whole search
// fails and nothing from that run reaches ingestion.
type Gateway struct {
	scrapers []Scraper
	timeout  time.Duration
}

func NewGateway(timeout time.Duration, scrapers ...Scraper) *Gateway {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Gateway{scrapers: scrapers, timeout: timeout}
}

func (g *Gateway) Sources() []string {
	sources := make([]string, 0, len(g.scrapers))
	for _, s := range g.scrapers {
		sources = append(sources, s.Source())
	}
	return sources
}

// Search runs every scraper with (topic, minPrice), bounded by the gateway
// timeout, and returns the merged valid records.
func (g *Gateway) Search(ctx context.Context, topic string, minPrice int) ([]RawJob, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results := make([][]RawJob, len(g.scrapers))

	eg, ctx := errgroup.WithContext(ctx)
	for i, sc := range g.scrapers {
		eg.Go(func() error {
			raws, err := sc.Scrape(ctx, topic, minPrice)
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Source(), err)
			}
			results[i] = raws
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var merged []RawJob
	for _, raws := range results {
		for _, r := range raws {
			if r.Valid() {
				merged = append(merged, r)
			}
		}
	}
	return merged, nil
}
