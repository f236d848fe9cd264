// Package search orchestrates a marketplace search: it fans the query out to
// the scraper gateway, commits novel results to the job store, and alerts
// users whose filters match the new jobs.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gigboard/gigboard/internal/apperror"
	"github.com/gigboard/gigboard/internal/job"
	"github.com/gigboard/gigboard/internal/scraper"
	"github.com/gigboard/gigboard/internal/user"
)

// Messenger delivers a filter-match alert. Failures are logged, never
// propagated to the search caller.
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

type Service struct {
	gateway   *scraper.Gateway
	jobs      job.Repository
	users     user.Repository
	messenger Messenger
}

func NewService(gateway *scraper.Gateway, jobs job.Repository, users user.Repository, messenger Messenger) *Service {
	return &Service{
		gateway:   gateway,
		jobs:      jobs,
		users:     users,
		messenger: messenger,
	}
}

type Request struct {
	UserID int64  `json:"-"`
	Query  string `json:"query"`
}

func (r Request) Validate() *apperror.AppError {
	if strings.TrimSpace(r.Query) == "" {
		return apperror.New(apperror.BadRequest, "query is required")
	}
	return nil
}

// Search runs the full ingestion workflow and returns the caller's jobs
// matching the scraped links, highest budget first.
func (s *Service) Search(ctx context.Context, req Request) ([]job.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	topic, minPrice := scraper.ParseQuery(req.Query)
	slog.Info("search started", "topic", topic, "minPrice", minPrice, "user", req.UserID)

	raws, err := s.gateway.Search(ctx, topic, minPrice)
	if err != nil {
		slog.Error("scraper gateway failed", "error", err)
		return nil, apperror.New(apperror.Internal, "search backend failed")
	}

	batch := make([]job.Job, 0, len(raws))
	links := make([]string, 0, len(raws))
	for _, r := range raws {
		batch = append(batch, rawToJob(r, req.UserID))
		links = append(links, r.Link)
	}

	inserted, err := s.jobs.InsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("ingest scraped jobs: %w", err)
	}
	slog.Info("search ingested", "scraped", len(raws), "new", len(inserted))

	s.alertMatches(ctx, inserted)

	jobs, err := s.jobs.ListByLinks(ctx, links, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("collect search results: %w", err)
	}
	job.SortByBudget(jobs)
	return jobs, nil
}

func rawToJob(r scraper.RawJob, ownerID int64) job.Job {
	title := r.Title
	if title == "" {
		title = job.DefaultTitle
	}
	return job.Job{
		Title:       title,
		Description: r.Description,
		Budget:      r.Budget,
		Link:        r.Link,
		Status:      job.StatusNew,
		OwnerID:     ownerID,
		Category:    r.Category,
		Deadline:    r.Deadline,
		ProjectType: r.ProjectType,
	}
}

// alertMatches notifies every user whose filter matches a newly ingested
// job, at most once per (user, link). Best-effort: every failure is logged
// and the search result is unaffected.
func (s *Service) alertMatches(ctx context.Context, insertedLinks []string) {
	if s.messenger == nil || len(insertedLinks) == 0 {
		return
	}

	filters, err := s.users.ActiveFilters(ctx)
	if err != nil {
		slog.Error("load active filters", "error", err)
		return
	}
	if len(filters) == 0 {
		return
	}

	for _, link := range insertedLinks {
		j, err := s.jobs.GetByLink(ctx, link)
		if err != nil {
			slog.Error("load ingested job for alerts", "link", link, "error", err)
			continue
		}

		for _, f := range filters {
			if !Matches(f.Filter, j) {
				continue
			}

			fresh, err := s.users.MarkSent(ctx, f.UserID, j.Link)
			if err != nil {
				slog.Error("record sent job", "user", f.UserID, "link", j.Link, "error", err)
				continue
			}
			if !fresh {
				continue
			}

			text := fmt.Sprintf("📢 New job:\n%s\n🔗 %s", j.Title, j.Link)
			if err := s.messenger.SendMessage(ctx, f.ChatID, text); err != nil {
				slog.Error("telegram alert failed", "user", f.UserID, "error", err)
			}
		}
	}
}

// Matches reports whether a job passes the filter. Every set criterion must
// pass; unset criteria do not constrain.
func Matches(f user.Filter, j *job.Job) bool {
	if len(f.Keywords) > 0 {
		text := strings.ToLower(j.Title + " " + j.Description)
		found := false
		for _, k := range f.Keywords {
			if k != "" && strings.Contains(text, strings.ToLower(k)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinPrice > 0 && job.ParseBudget(j.Budget) < float64(f.MinPrice) {
		return false
	}

	if f.Category != "" && !strings.EqualFold(f.Category, j.Category) {
		return false
	}

	return true
}
