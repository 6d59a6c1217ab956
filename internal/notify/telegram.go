// Package notify pushes order summaries to the staff Telegram channel.
// Delivery is best-effort: a failed notification is logged by the caller and
// never rolls back the order it describes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type OrderSummary struct {
	OrderID string
	Total   decimal.Decimal
	Phone   string
	Address string
}

type Notifier interface {
	Notify(ctx context.Context, s OrderSummary) error
}

// Telegram posts sendMessage to the Bot API. No client library: it is a
// single JSON POST against one endpoint.
type Telegram struct {
	BaseURL string
	Token   string
	ChatID  string
	Client  *http.Client
}

func NewTelegram(baseURL, token, chatID string) *Telegram {
	return &Telegram{
		BaseURL: baseURL,
		Token:   token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Telegram) Notify(ctx context.Context, s OrderSummary) error {
	text := fmt.Sprintf(
		"\U0001F6D2 Yangi buyurtma!\nRaqam: #%s\nSumma: %s so'm\nTelefon: %s\nManzil: %s",
		s.OrderID, s.Total.StringFixed(0), s.Phone, s.Address,
	)
	body, err := json.Marshal(map[string]any{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage: status %d", resp.StatusCode)
	}
	return nil
}

// Nop is used when no bot token is configured.
type Nop struct{}

func (Nop) Notify(context.Context, OrderSummary) error { return nil }
