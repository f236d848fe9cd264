package user

import (
	"context"
	"strings"

	"github.com/gigboard/gigboard/internal/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SaveFilterRequest struct {
	UserID         int64    `json:"-"`
	Keywords       []string `json:"keywords"`
	MinPrice       int      `json:"minPrice"`
	Category       string   `json:"category"`
	TelegramChatID string   `json:"telegramChatId"`
}

func (r SaveFilterRequest) Validate() *apperror.AppError {
	if r.UserID <= 0 {
		return apperror.New(apperror.BadRequest, "user id is required")
	}
	if r.MinPrice < 0 {
		return apperror.New(apperror.BadRequest, "minPrice must not be negative")
	}
	return nil
}

func (s *Service) SaveFilter(ctx context.Context, req SaveFilterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	f := Filter{
		UserID:   req.UserID,
		Keywords: keywords,
		MinPrice: req.MinPrice,
		Category: strings.TrimSpace(req.Category),
	}
	return s.repo.SaveFilter(ctx, f, strings.TrimSpace(req.TelegramChatID))
}

// GetFilter returns the user's filter, or an unconstrained default when none
// has been saved yet.
func (s *Service) GetFilter(ctx context.Context, userID int64) (*Filter, error) {
	f, err := s.repo.GetFilter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return &Filter{UserID: userID, Keywords: []string{}}, nil
	}
	return f, nil
}
