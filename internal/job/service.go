package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigboard/gigboard/internal/apperror"
	"github.com/gigboard/gigboard/internal/notify"
)

// Service enforces the claim lifecycle. All storage errors are translated to
// the apperror taxonomy here; raw database errors never cross this boundary.
type Service struct {
	repo Repository
	sink notify.Sink
}

func NewService(repo Repository, sink notify.Sink) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{repo: repo, sink: sink}
}

func (s *Service) Get(ctx context.Context, req GetJobRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, req.ID)
}

// List returns jobs matching the query, ordered by parsed budget with the
// highest budget first.
func (s *Service) List(ctx context.Context, req ListJobsRequest) ([]Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	q := ListQuery{}
	if req.Status != "" {
		q.Status = Status(req.Status)
	}
	if req.Free {
		q.Status = StatusNew
	}
	if req.Mine {
		q.AssigneeID = req.UserID
		if q.Status == "" {
			q.Status = StatusInProgress
		}
	}

	jobs, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	SortByBudget(jobs)
	return jobs, nil
}

// Claim reserves the job for userID. Claiming a job already assigned to the
// same user is an idempotent success; any other non-new job is a conflict.
func (s *Service) Claim(ctx context.Context, jobID, userID int64) (*Job, error) {
	ok, err := s.repo.TryClaim(ctx, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("claim job %d: %w", jobID, err)
	}
	if ok {
		return s.repo.Get(ctx, jobID)
	}

	// The conditional write did not apply: classify why.
	j, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.AssigneeID == userID {
		return j, nil
	}
	return nil, apperror.New(apperror.Conflict, "job is already claimed")
}

// ClaimByLink is the alternate claim path keyed by link.
func (s *Service) ClaimByLink(ctx context.Context, link string, userID int64) (*Job, error) {
	if link == "" {
		return nil, apperror.New(apperror.BadRequest, "link is required")
	}

	ok, err := s.repo.TryClaimByLink(ctx, link, userID)
	if err != nil {
		return nil, fmt.Errorf("claim job by link: %w", err)
	}

	j, getErr := s.repo.GetByLink(ctx, link)
	if getErr != nil {
		return nil, getErr
	}
	if ok || j.AssigneeID == userID {
		return j, nil
	}
	return nil, apperror.New(apperror.Conflict, "job is already claimed")
}

// Complete marks an in-progress job done. Only the assignee may complete a
// job. On success a task_completed event and a chat broadcast are published,
// best-effort.
func (s *Service) Complete(ctx context.Context, jobID, userID int64) (*Job, error) {
	ok, err := s.repo.TryComplete(ctx, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("complete job %d: %w", jobID, err)
	}
	if !ok {
		j, getErr := s.repo.Get(ctx, jobID)
		if getErr != nil {
			return nil, getErr
		}
		if j.AssigneeID != userID {
			return nil, apperror.New(apperror.Forbidden, "you are not assigned to this job")
		}
		return nil, apperror.New(apperror.Conflict, "job is not in progress")
	}

	j, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, notify.Event{
		Type: notify.EventTaskCompleted,
		Payload: map[string]any{
			"id":          j.ID,
			"title":       j.Title,
			"description": j.Description,
		},
	})
	s.sink.Publish(ctx, notify.Event{
		Type: notify.EventChatMessage,
		Payload: map[string]any{
			"msg":  fmt.Sprintf("user %d completed: %s", userID, j.Title),
			"time": time.Now().Format("15:04"),
		},
	})

	slog.Info("job completed", "job", j.ID, "user", userID)
	return j, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) Analytics(ctx context.Context) ([]UserStats, error) {
	return s.repo.Analytics(ctx)
}
