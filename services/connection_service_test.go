package services

import (
	"context"
	"errors"
	"testing"

	"github.com/maplecrest/rinkside/models"
)

func TestAddSong(t *testing.T) {
	connectionRepo := newFakeConnectionRepo()
	svc := NewConnectionService(connectionRepo)

	connection := &models.Connection{CharacterID: 1, ConnectedCharacterID: 2, Relationship: "exes"}
	if err := connectionRepo.Create(context.Background(), connection); err != nil {
		t.Fatalf("seed connection: %v", err)
	}

	title := "The Chain"
	song, err := svc.AddSong(context.Background(), connection.ID, AddSongInput{
		Title:      &title,
		SpotifyURL: "  https://open.spotify.com/track/abc  ",
	})
	if err != nil {
		t.Fatalf("add song failed: %v", err)
	}
	if song.SpotifyURL != "https://open.spotify.com/track/abc" {
		t.Errorf("url not trimmed: %q", song.SpotifyURL)
	}

	loaded, err := svc.GetConnection(context.Background(), connection.ID)
	if err != nil {
		t.Fatalf("get connection failed: %v", err)
	}
	if len(loaded.Songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(loaded.Songs))
	}
	if loaded.Songs[0].Title == nil || *loaded.Songs[0].Title != "The Chain" {
		t.Errorf("title lost: %+v", loaded.Songs[0])
	}
}

func TestAddSongRequiresURL(t *testing.T) {
	connectionRepo := newFakeConnectionRepo()
	svc := NewConnectionService(connectionRepo)

	connection := &models.Connection{CharacterID: 1, ConnectedCharacterID: 2, Relationship: "exes"}
	if err := connectionRepo.Create(context.Background(), connection); err != nil {
		t.Fatalf("seed connection: %v", err)
	}

	_, err := svc.AddSong(context.Background(), connection.ID, AddSongInput{SpotifyURL: "  "})
	if !errors.Is(err, ErrSpotifyURLRequired) {
		t.Fatalf("expected ErrSpotifyURLRequired, got %v", err)
	}
}

func TestAddSongUnknownConnection(t *testing.T) {
	svc := NewConnectionService(newFakeConnectionRepo())

	_, err := svc.AddSong(context.Background(), 99, AddSongInput{SpotifyURL: "https://open.spotify.com/track/abc"})
	if !errors.Is(err, ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}
