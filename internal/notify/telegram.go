package notify

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/naigolf/bitgolf/internal/market"
	"github.com/naigolf/bitgolf/internal/metrics"
)

// DefaultTelegramBaseURL is the production bot API endpoint.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// Telegram pushes outcome messages to a chat. Delivery is best-effort:
// failures are logged and counted, never fatal to the trading loop.
type Telegram struct {
	http   *resty.Client
	chatID string
	log    zerolog.Logger
}

// NewTelegram constructs a reporter for one bot token and chat.
func NewTelegram(baseURL, token, chatID string, log zerolog.Logger) *Telegram {
	if baseURL == "" {
		baseURL = DefaultTelegramBaseURL
	}
	httpc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/bot" + token).
		SetTimeout(10 * time.Second)
	return &Telegram{http: httpc, chatID: chatID, log: log}
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (t *Telegram) Publish(o market.Outcome) {
	resp, err := t.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(telegramMessage{ChatID: t.chatID, Text: FormatText(o)}).
		Post("/sendMessage")
	if err != nil {
		metrics.NotifyFailures.Inc()
		t.log.Warn().Err(err).Msg("telegram notify failed")
		return
	}
	if resp.StatusCode() >= 300 {
		metrics.NotifyFailures.Inc()
		t.log.Warn().Int("status", resp.StatusCode()).Msg("telegram notify rejected")
	}
}
