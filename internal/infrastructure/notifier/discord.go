package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"pricewatch/internal/domain/entity"
	"pricewatch/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	alertTitle        = "Price Check Alert"
	alertColor        = 0x7FFFD4
	alertHeadline     = "\n\nListing prices have dropped below thresholds! "
	discordMaxFields  = 25
	errorBodyMaxBytes = 4096
)

var ErrWebhookRejected = errors.New("webhook rejected")

type WebhookPayload struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type DiscordOption func(*Discord)

// WithEmbedFields adds one embed field per alert.
func WithEmbedFields(enabled bool) DiscordOption {
	return func(d *Discord) {
		d.embedFields = enabled
	}
}

// WithClock overrides the embed timestamp source.
func WithClock(now func() time.Time) DiscordOption {
	return func(d *Discord) {
		d.now = now
	}
}

// Discord posts alerts to a Discord incoming webhook.
type Discord struct {
	webhookURL  string
	client      *http.Client
	embedFields bool
	now         func() time.Time
}

func NewDiscord(webhookURL string, client *http.Client, opts ...DiscordOption) *Discord {
	if client == nil {
		client = http.DefaultClient
	}

	d := &Discord{
		webhookURL: webhookURL,
		client:     client,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Notify posts a single webhook message. Nothing is sent for an empty set.
func (d *Discord) Notify(ctx context.Context, alerts []entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(d.Payload(alerts))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", logx.MaskError(err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", logx.MaskError(err))
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		logger(ctx).Info("notification sent",
			slog.Int(logx.FieldResponseStatus, resp.StatusCode),
			slog.Int(logx.FieldCount, len(alerts)),
		)

		return nil
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyMaxBytes)) //nolint:errcheck

		return fmt.Errorf("%w: status %d: %s", ErrWebhookRejected, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
}

// Payload composes the webhook body for alerts.
func (d *Discord) Payload(alerts []entity.Alert) WebhookPayload {
	p := newPrinter()

	mentions := lo.Map(Recipients(alerts), func(id string, _ int) string {
		return "<@" + id + ">"
	})

	blocks := lo.Map(alerts, func(a entity.Alert, _ int) string {
		return fmt.Sprintf("• **%s - (%s) - %s**\n  Price: **%s** (Threshold: %s) - [Link](%s)",
			a.Listing.Name,
			a.Listing.Code,
			a.Listing.Condition,
			yen(p, a.Price),
			yen(p, a.Listing.Threshold),
			a.Listing.URL,
		)
	})

	embed := Embed{
		Title:       alertTitle,
		Description: strings.Join(blocks, "\n\n"),
		Timestamp:   d.now().UTC().Format(time.RFC3339),
		Color:       alertColor,
	}

	if d.embedFields {
		for _, a := range lo.Slice(alerts, 0, discordMaxFields) {
			embed.Fields = append(embed.Fields, EmbedField{
				Name:  a.Listing.Name,
				Value: fmt.Sprintf("%s (Threshold: %s)\n[Link](%s)", yen(p, a.Price), yen(p, a.Listing.Threshold), a.Listing.URL),
			})
		}
	}

	return WebhookPayload{
		Content: alertHeadline + strings.Join(mentions, ", "),
		Embeds:  []Embed{embed},
	}
}
