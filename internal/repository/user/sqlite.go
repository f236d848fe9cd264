package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	domain "github.com/gigboard/gigboard/internal/user"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveFilter(ctx context.Context, f domain.Filter, chatID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save filter: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const filterQuery = `INSERT INTO user_filters (user_id, keywords, min_price, category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			keywords = excluded.keywords,
			min_price = excluded.min_price,
			category = excluded.category,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

	_, err = tx.ExecContext(ctx, filterQuery,
		f.UserID, strings.Join(f.Keywords, ","), f.MinPrice, f.Category)
	if err != nil {
		return fmt.Errorf("save filter: %w", err)
	}

	if chatID != "" {
		const chatQuery = `INSERT INTO users (id, telegram_chat_id) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET telegram_chat_id = excluded.telegram_chat_id`
		if _, err := tx.ExecContext(ctx, chatQuery, f.UserID, chatID); err != nil {
			return fmt.Errorf("save telegram chat id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save filter: commit: %w", err)
	}
	return nil
}

// GetFilter returns nil without error when the user has no saved filter.
func (r *Repository) GetFilter(ctx context.Context, userID int64) (*domain.Filter, error) {
	const query = `SELECT user_id, keywords, min_price, category
		FROM user_filters WHERE user_id = ?`

	f, err := scanFilter(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get filter: %w", err)
	}
	return f, nil
}

func (r *Repository) ActiveFilters(ctx context.Context) ([]domain.ActiveFilter, error) {
	const query = `SELECT f.user_id, f.keywords, f.min_price, f.category, u.telegram_chat_id
		FROM user_filters f
		JOIN users u ON u.id = f.user_id
		WHERE u.telegram_chat_id != ''
		ORDER BY f.user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("active filters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var filters []domain.ActiveFilter
	for rows.Next() {
		var af domain.ActiveFilter
		var keywords string
		if err := rows.Scan(&af.UserID, &keywords, &af.MinPrice, &af.Category, &af.ChatID); err != nil {
			return nil, fmt.Errorf("scan active filter: %w", err)
		}
		af.Keywords = splitKeywords(keywords)
		filters = append(filters, af)
	}
	return filters, rows.Err()
}

func (r *Repository) MarkSent(ctx context.Context, userID int64, link string) (bool, error) {
	const query = `INSERT OR IGNORE INTO sent_jobs (user_id, job_link) VALUES (?, ?)`

	res, err := r.db.ExecContext(ctx, query, userID, link)
	if err != nil {
		return false, fmt.Errorf("mark sent: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanFilter(row *sql.Row) (*domain.Filter, error) {
	f := &domain.Filter{}
	var keywords string
	if err := row.Scan(&f.UserID, &keywords, &f.MinPrice, &f.Category); err != nil {
		return nil, err
	}
	f.Keywords = splitKeywords(keywords)
	return f, nil
}

func splitKeywords(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}
