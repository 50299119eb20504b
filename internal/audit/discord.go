package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Discord embed palette.
const (
	colorInfo  = 0x57F287 // green
	colorAlert = 0xED4245 // red
)

// DiscordSink delivers audit events to a Discord webhook as a single embed
// per event. Delivery failures are logged at debug and discarded; there is
// no retry.
type DiscordSink struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// NewDiscordSink creates a sink posting to webhookURL. A nil client gets a
// 10 second timeout default.
func NewDiscordSink(webhookURL string, client *http.Client, logger *slog.Logger) *DiscordSink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordSink{
		webhookURL: webhookURL,
		client:     client,
		logger:     logger.With(slog.String("component", "audit-discord")),
	}
}

func (s *DiscordSink) Emit(ctx context.Context, event Event) {
	color := colorInfo
	if event.Severity == SeverityAlert {
		color = colorAlert
	}

	payload := discordPayload{
		Embeds: []discordEmbed{{
			Title:       event.Title,
			Description: event.Message,
			Color:       color,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.DebugContext(ctx, "audit payload marshal failed",
			slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		s.logger.DebugContext(ctx, "audit webhook request build failed",
			slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.DebugContext(ctx, "audit webhook delivery failed",
			slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.DebugContext(ctx, "audit webhook rejected",
			slog.Int("status", resp.StatusCode))
	}
}
