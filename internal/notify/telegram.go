package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram sends chat messages through the Bot API. With an empty token the
// sender is disabled and every send is a silent no-op, so deployments
// without a bot configured keep working.
type Telegram struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type TelegramOption func(*Telegram)

func WithBaseURL(u string) TelegramOption {
	return func(t *Telegram) { t.baseURL = u }
}

func WithClient(c *http.Client) TelegramOption {
	return func(t *Telegram) { t.client = c }
}

func NewTelegram(token string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		token:   token,
		baseURL: defaultTelegramAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
		// Bot API allows ~30 messages/second overall; stay well under it.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Telegram) Enabled() bool { return t.token != "" }

// SendMessage delivers text to the given chat. Callers treat failures as
// non-fatal; the error is returned for logging only.
func (t *Telegram) SendMessage(ctx context.Context, chatID, text string) error {
	if !t.Enabled() {
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram responded %d: %s", resp.StatusCode, detail)
	}
	return nil
}
