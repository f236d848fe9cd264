package job

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gigboard/gigboard/internal/apperror"
	domain "github.com/gigboard/gigboard/internal/job"
)

const selectColumns = `id, title, description, budget, link, status,
	owner_id, assignee_id, category, deadline, project_type, complexity,
	created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id = ?", selectColumns)
	j, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (r *Repository) GetByLink(ctx context.Context, link string) (*domain.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE link = ?", selectColumns)
	j, err := scanJob(r.db.QueryRowContext(ctx, query, link))
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get job by link: %w", err)
	}
	return j, nil
}

func (r *Repository) List(ctx context.Context, q domain.ListQuery) ([]domain.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE 1=1", selectColumns)

	var args []any
	if q.Status != "" {
		query += " AND status = ?"
		args = append(args, string(q.Status))
	}
	if q.AssigneeID != 0 {
		query += " AND assignee_id = ?"
		args = append(args, q.AssigneeID)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectJobs(rows)
}

// InsertBatch commits all novel jobs in one transaction. A link already
// present (or repeated within the batch) is skipped; the first write wins.
func (r *Repository) InsertBatch(ctx context.Context, jobs []domain.Job) ([]string, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert batch: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT OR IGNORE INTO jobs
		(title, description, budget, link, status, owner_id, category, deadline, project_type, complexity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var inserted []string
	for _, j := range jobs {
		res, err := tx.ExecContext(ctx, query,
			j.Title, j.Description, j.Budget, j.Link,
			string(j.Status), j.OwnerID,
			j.Category, j.Deadline, j.ProjectType, string(j.Complexity),
		)
		if err != nil {
			return nil, fmt.Errorf("insert job %s: %w", j.Link, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted = append(inserted, j.Link)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert batch: commit: %w", err)
	}
	return inserted, nil
}

func (r *Repository) ListByLinks(ctx context.Context, links []string, ownerID int64) ([]domain.Job, error) {
	if len(links) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(links)-1) + "?"
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE owner_id = ? AND link IN (%s) ORDER BY id DESC",
		selectColumns, placeholders)

	args := make([]any, 0, len(links)+1)
	args = append(args, ownerID)
	for _, l := range links {
		args = append(args, l)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs by links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectJobs(rows)
}

// TryClaim is a compare-and-set: the status check and the write are one
// atomic statement, so under concurrent claims at most one can apply.
func (r *Repository) TryClaim(ctx context.Context, id, userID int64) (bool, error) {
	const query = `UPDATE jobs SET status = ?, assignee_id = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, query,
		string(domain.StatusInProgress), userID, id, string(domain.StatusNew))
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) TryClaimByLink(ctx context.Context, link string, userID int64) (bool, error) {
	const query = `UPDATE jobs SET status = ?, assignee_id = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE link = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, query,
		string(domain.StatusInProgress), userID, link, string(domain.StatusNew))
	if err != nil {
		return false, fmt.Errorf("claim job by link: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) TryComplete(ctx context.Context, id, userID int64) (bool, error) {
	const query = `UPDATE jobs SET status = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ? AND status = ? AND assignee_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		string(domain.StatusDone), id, string(domain.StatusInProgress), userID)
	if err != nil {
		return false, fmt.Errorf("complete job: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repository) Stats(ctx context.Context) (*domain.Stats, error) {
	const query = `SELECT COUNT(*), COUNT(assignee_id) FROM jobs`

	s := &domain.Stats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Taken); err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return s, nil
}

func (r *Repository) Analytics(ctx context.Context) ([]domain.UserStats, error) {
	const query = `SELECT j.assignee_id, COALESCE(u.username, ''),
		COUNT(*), SUM(CASE WHEN j.status = 'done' THEN 1 ELSE 0 END)
		FROM jobs j
		LEFT JOIN users u ON u.id = j.assignee_id
		WHERE j.assignee_id IS NOT NULL
		GROUP BY j.assignee_id
		ORDER BY j.assignee_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("job analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []domain.UserStats
	for rows.Next() {
		var s domain.UserStats
		if err := rows.Scan(&s.UserID, &s.Username, &s.Taken, &s.Done); err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	j := &domain.Job{}
	var status, complexity, createdStr, updatedStr string
	var assignee sql.NullInt64

	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Budget, &j.Link, &status,
		&j.OwnerID, &assignee, &j.Category, &j.Deadline, &j.ProjectType, &complexity,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	j.Status = domain.Status(status)
	j.Complexity = domain.Complexity(complexity)
	if assignee.Valid {
		j.AssigneeID = assignee.Int64
	}
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return j, nil
}

func collectJobs(rows *sql.Rows) ([]domain.Job, error) {
	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
