package job

import "context"

// ListQuery narrows List results. Zero value lists everything.
type ListQuery struct {
	Status     Status
	AssigneeID int64
}

type Repository interface {
	Get(ctx context.Context, id int64) (*Job, error)
	GetByLink(ctx context.Context, link string) (*Job, error)
	List(ctx context.Context, q ListQuery) ([]Job, error)

	// InsertBatch inserts the given jobs in a single transaction, skipping
	// any whose link is already present (first write wins). Returns the
	// links that were actually inserted.
	InsertBatch(ctx context.Context, jobs []Job) ([]string, error)

	// ListByLinks returns jobs owned by ownerID whose link is in links.
	ListByLinks(ctx context.Context, links []string, ownerID int64) ([]Job, error)

	// TryClaim atomically moves the job to in_progress with the given
	// assignee, if and only if its status is still new. Reports whether the
	// write happened.
	TryClaim(ctx context.Context, id, userID int64) (bool, error)

	// TryClaimByLink is TryClaim keyed by link.
	TryClaimByLink(ctx context.Context, link string, userID int64) (bool, error)

	// TryComplete atomically moves the job to done, if and only if it is
	// in_progress and assigned to userID. Reports whether the write happened.
	TryComplete(ctx context.Context, id, userID int64) (bool, error)

	Stats(ctx context.Context) (*Stats, error)
	Analytics(ctx context.Context) ([]UserStats, error)
}
