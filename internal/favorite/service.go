package favorite

import (
	"context"
	"fmt"

	"github.com/gigboard/gigboard/internal/apperror"
	"github.com/gigboard/gigboard/internal/job"
)

type Service struct {
	repo Repository
	jobs job.Repository
}

func NewService(repo Repository, jobs job.Repository) *Service {
	return &Service{repo: repo, jobs: jobs}
}

// Add bookmarks the job with the given link. Reports false when it was
// already bookmarked.
func (s *Service) Add(ctx context.Context, userID int64, link string) (bool, error) {
	if link == "" {
		return false, apperror.New(apperror.BadRequest, "link is required")
	}

	j, err := s.jobs.GetByLink(ctx, link)
	if err != nil {
		return false, err
	}

	added, err := s.repo.Add(ctx, userID, j.ID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return added, nil
}

func (s *Service) Remove(ctx context.Context, userID, jobID int64) error {
	if err := s.repo.Remove(ctx, userID, jobID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// List returns the user's bookmarked jobs, highest budget first.
func (s *Service) List(ctx context.Context, userID int64) ([]job.Job, error) {
	jobs, err := s.repo.ListJobs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	job.SortByBudget(jobs)
	return jobs, nil
}
