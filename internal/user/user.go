// Package user holds the thin user surface the core needs: roles, Telegram
// chat ids, and per-user notification filters. Authentication itself lives
// outside this service; handlers receive the acting user id from the
// transport boundary.
package user

import "context"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
	TelegramChatID string `json:"telegramChatId,omitempty"`
}

// Filter decides which freshly ingested jobs are relevant enough to alert a
// user about. Empty fields do not constrain.
type Filter struct {
	UserID   int64    `json:"userId"`
	Keywords []string `json:"keywords"`
	MinPrice int      `json:"minPrice"`
	Category string   `json:"category"`
}

// ActiveFilter is a filter joined with the Telegram chat it alerts.
type ActiveFilter struct {
	Filter
	ChatID string `json:"telegramChatId"`
}

type Repository interface {
	// SaveFilter upserts the user's filter and, when chatID is non-empty,
	// the user's Telegram chat id.
	SaveFilter(ctx context.Context, f Filter, chatID string) error
	GetFilter(ctx context.Context, userID int64) (*Filter, error)

	// ActiveFilters returns every filter whose owner has a Telegram chat id.
	ActiveFilters(ctx context.Context) ([]ActiveFilter, error)

	// MarkSent records that link was alerted to userID. Reports false when
	// the pair was already recorded, so a link is never alerted twice.
	MarkSent(ctx context.Context, userID int64, link string) (bool, error)
}
