package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maplecrest/rinkside/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTeamCreatedDelivers(t *testing.T) {
	received := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad webhook body: %v", err)
		}
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = notifier.Run(ctx)
		close(done)
	}()

	city := "Portsmouth"
	logo := "https://img.example/gulls.png"
	notifier.TeamCreated(&models.Team{
		Name:     "Portsmouth Gulls",
		City:     &city,
		LogoURL:  &logo,
		IsActive: true,
	})

	select {
	case payload := <-received:
		if len(payload.Embeds) != 1 {
			t.Fatalf("expected 1 embed, got %d", len(payload.Embeds))
		}
		e := payload.Embeds[0]
		if e.Title != "New Team: Portsmouth Gulls" {
			t.Errorf("unexpected embed title: %q", e.Title)
		}
		if e.Color != embedColor {
			t.Errorf("unexpected embed color: %#x", e.Color)
		}
		if e.Thumbnail == nil || e.Thumbnail.URL != logo {
			t.Errorf("logo not carried as thumbnail: %+v", e.Thumbnail)
		}
		if len(e.Fields) != 2 || e.Fields[0].Value != "Portsmouth" || e.Fields[1].Value != "Active" {
			t.Errorf("unexpected fields: %+v", e.Fields)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook never called")
	}

	cancel()
	<-done
}

func TestTeamCreatedNeverBlocks(t *testing.T) {
	// No Run loop draining the queue; enqueue past capacity must drop
	// instead of blocking the caller.
	notifier := NewDiscordNotifier("http://localhost:1", testLogger())

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*2; i++ {
			notifier.TeamCreated(&models.Team{Name: "Overflow"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("TeamCreated blocked on a full queue")
	}
}

func TestRunReturnsNilOnCancel(t *testing.T) {
	notifier := NewDiscordNotifier("http://localhost:1", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := notifier.Run(ctx); err != nil {
		t.Fatalf("Run should swallow its errors, got %v", err)
	}
}
