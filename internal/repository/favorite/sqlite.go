package favorite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/gigboard/gigboard/internal/job"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(ctx context.Context, userID, jobID int64) (bool, error) {
	const query = `INSERT OR IGNORE INTO favorites (user_id, job_id) VALUES (?, ?)`

	res, err := r.db.ExecContext(ctx, query, userID, jobID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) Remove(ctx context.Context, userID, jobID int64) error {
	const query = `DELETE FROM favorites WHERE user_id = ? AND job_id = ?`

	if _, err := r.db.ExecContext(ctx, query, userID, jobID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *Repository) ListJobs(ctx context.Context, userID int64) ([]domain.Job, error) {
	const query = `SELECT j.id, j.title, j.description, j.budget, j.link, j.status,
		j.owner_id, j.assignee_id, j.category, j.deadline, j.project_type, j.complexity,
		j.created_at, j.updated_at
		FROM favorites f
		JOIN jobs j ON j.id = f.job_id
		WHERE f.user_id = ?
		ORDER BY f.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		var status, complexity, createdStr, updatedStr string
		var assignee sql.NullInt64

		if err := rows.Scan(
			&j.ID, &j.Title, &j.Description, &j.Budget, &j.Link, &status,
			&j.OwnerID, &assignee, &j.Category, &j.Deadline, &j.ProjectType, &complexity,
			&createdStr, &updatedStr,
		); err != nil {
			return nil, fmt.Errorf("scan favorite job: %w", err)
		}

		j.Status = domain.Status(status)
		j.Complexity = domain.Complexity(complexity)
		if assignee.Valid {
			j.AssigneeID = assignee.Int64
		}
		j.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
