// Package favorite tracks per-user job bookmarks, keyed (user, job) with a
// uniqueness constraint in the store.
package favorite

import (
	"context"

	"github.com/gigboard/gigboard/internal/job"
)

type Repository interface {
	// Add bookmarks jobID for userID. Reports false when the bookmark
	// already existed.
	Add(ctx context.Context, userID, jobID int64) (bool, error)
	Remove(ctx context.Context, userID, jobID int64) error
	ListJobs(ctx context.Context, userID int64) ([]job.Job, error)
}
