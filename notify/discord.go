package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/maplecrest/rinkside/models"
)

const (
	queueSize      = 64
	requestTimeout = 10 * time.Second
	embedColor     = 0x5a8095
)

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Thumbnail   *embedMedia  `json:"thumbnail,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedMedia struct {
	URL string `json:"url"`
}

// DiscordNotifier posts webhook messages from a single worker goroutine.
// Enqueueing never blocks the caller and never reports failure upstream:
// the queue drops on overflow and delivery errors are only logged. The
// request that triggered a notification must not be able to observe it.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	queue      chan webhookPayload
	logger     *slog.Logger
}

func NewDiscordNotifier(webhookURL string, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: requestTimeout},
		queue:      make(chan webhookPayload, queueSize),
		logger:     logger,
	}
}

// Run drains the queue until ctx is cancelled. Always returns nil so an
// errgroup running it does not tear the process down over a side channel.
func (n *DiscordNotifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-n.queue:
			if err := n.post(ctx, payload); err != nil {
				n.logger.Error("discord notification failed", slog.Any("error", err))
			}
		}
	}
}

// TeamCreated queues the "new team" announcement.
func (n *DiscordNotifier) TeamCreated(team *models.Team) {
	if n.webhookURL == "" {
		return
	}

	description := "No description provided"
	if team.Description != nil && *team.Description != "" {
		description = *team.Description
	}
	location := "Unknown"
	if team.City != nil && *team.City != "" {
		location = *team.City
	}
	status := "Inactive"
	if team.IsActive {
		status = "Active"
	}

	e := embed{
		Title:       fmt.Sprintf("New Team: %s", team.Name),
		Description: description,
		Color:       embedColor,
		Fields: []embedField{
			{Name: "Location", Value: location, Inline: true},
			{Name: "Status", Value: status, Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if team.LogoURL != nil && *team.LogoURL != "" {
		e.Thumbnail = &embedMedia{URL: *team.LogoURL}
	}

	n.enqueue(webhookPayload{
		Content: "New team created!",
		Embeds:  []embed{e},
	})
}

func (n *DiscordNotifier) enqueue(payload webhookPayload) {
	select {
	case n.queue <- payload:
	default:
		n.logger.Warn("discord notification dropped, queue full")
	}
}

func (n *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return nil
}
