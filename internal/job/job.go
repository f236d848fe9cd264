// Package job defines freelance jobs and their claim lifecycle.
//
// Status graph:
//
//	new ──► in_progress ──► done
//
// done is terminal; there is no cancellation or reopen transition.
package job

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusNew:        {StatusInProgress},
	StatusInProgress: {StatusDone},
	// done is terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNew, StatusInProgress, StatusDone:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// CanTransition returns true when moving from → to is permitted.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

const DefaultTitle = "Untitled"

// Job is a unit of freelance work discovered by a scraper and tracked
// through the claim lifecycle. Link is globally unique and serves as the
// deduplication key. AssigneeID is zero while the job is unclaimed.
type Job struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Budget      string     `json:"budget"`
	Link        string     `json:"link"`
	Status      Status     `json:"status"`
	OwnerID     int64      `json:"ownerId"`
	AssigneeID  int64      `json:"assigneeId,omitempty"`
	Category    string     `json:"category,omitempty"`
	Deadline    string     `json:"deadline,omitempty"`
	ProjectType string     `json:"projectType,omitempty"`
	Complexity  Complexity `json:"complexity,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UserStats aggregates per-user claim activity.
type UserStats struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
	Taken    int64  `json:"taken"`
	Done     int64  `json:"done"`
}

// Stats summarizes the board for the task list view.
type Stats struct {
	Total int64 `json:"total"`
	Taken int64 `json:"taken"`
}
