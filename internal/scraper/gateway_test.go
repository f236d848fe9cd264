package scraper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubScraper struct {
	name    string
	raws    []RawJob
	err     error
	started *atomic.Int32
	block   bool
}

func (s *stubScraper) Source() string { return s.name }

func (s *stubScraper) Scrape(ctx context.Context, _ string, _ int) ([]RawJob, error) {
	if s.started != nil {
		s.started.Add(1)
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.raws, s.err
}

func TestGateway_MergesAllSources(t *testing.T) {
	g := NewGateway(time.Second,
		&stubScraper{name: "upwork", raws: []RawJob{
			{Title: "A", Description: "d", Link: "https://example.com/a"},
		}},
		&stubScraper{name: "guru", raws: []RawJob{
			{Title: "B", Description: "d", Link: "https://example.com/b"},
		}},
	)

	raws, err := g.Search(context.Background(), "python", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raws))
	}
}

func TestGateway_RunsScrapersConcurrently(t *testing.T) {
	var started atomic.Int32
	release := make(chan struct{})

	wait := func(ctx context.Context, _ string, _ int) ([]RawJob, error) {
		started.Add(1)
		select {
		case <-release:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g := NewGateway(5*time.Second, scraperFunc{"upwork", wait}, scraperFunc{"guru", wait})

	done := make(chan error, 1)
	go func() {
		_, err := g.Search(context.Background(), "python", 0)
		done <- err
	}()

	// Both scrapers must start without either finishing first.
	deadline := time.After(2 * time.Second)
	for started.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("scrapers did not start concurrently, started=%d", started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("search: %v", err)
	}
}

func TestGateway_OneFailureFailsTheSearch(t *testing.T) {
	g := NewGateway(time.Second,
		&stubScraper{name: "upwork", raws: []RawJob{
			{Title: "A", Description: "d", Link: "https://example.com/a"},
		}},
		&stubScraper{name: "guru", err: ErrScraperFailure},
	)

	_, err := g.Search(context.Background(), "python", 0)
	if !errors.Is(err, ErrScraperFailure) {
		t.Fatalf("expected ErrScraperFailure, got %v", err)
	}
}

func TestGateway_DropsInvalidRecords(t *testing.T) {
	g := NewGateway(time.Second,
		&stubScraper{name: "upwork", raws: []RawJob{
			{Title: "ok", Description: "d", Link: "https://example.com/a"},
			{Title: "no description", Link: "https://example.com/b"},
			{Title: "no link", Description: "d"},
		}},
	)

	raws, err := g.Search(context.Background(), "python", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(raws) != 1 || raws[0].Link != "https://example.com/a" {
		t.Fatalf("expected only the valid record, got %+v", raws)
	}
}

func TestGateway_Timeout(t *testing.T) {
	g := NewGateway(50*time.Millisecond, &stubScraper{name: "upwork", block: true})

	start := time.Now()
	_, err := g.Search(context.Background(), "python", 0)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout was not enforced")
	}
}

// scraperFunc adapts a function to the Scraper interface.
type scraperFunc struct {
	name string
	fn   func(ctx context.Context, topic string, minPrice int) ([]RawJob, error)
}

func (s scraperFunc) Source() string { return s.name }

func (s scraperFunc) Scrape(ctx context.Context, topic string, minPrice int) ([]RawJob, error) {
	return s.fn(ctx, topic, minPrice)
}
