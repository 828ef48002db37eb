package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maplecrest/rinkside/models"
	"github.com/maplecrest/rinkside/repositories"
)

type ConnectionService interface {
	GetConnection(ctx context.Context, id int) (*models.Connection, error)
	AddSong(ctx context.Context, connectionID int, input AddSongInput) (*models.ConnectionSong, error)
}

type AddSongInput struct {
	Title      *string
	SpotifyURL string
}

type connectionService struct {
	connectionRepo repositories.ConnectionRepository
}

func NewConnectionService(connectionRepo repositories.ConnectionRepository) ConnectionService {
	return &connectionService{connectionRepo: connectionRepo}
}

func (s *connectionService) GetConnection(ctx context.Context, id int) (*models.Connection, error) {
	connection, err := s.connectionRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection %d: %w", id, err)
	}
	return connection, nil
}

func (s *connectionService) AddSong(ctx context.Context, connectionID int, input AddSongInput) (*models.ConnectionSong, error) {
	if strings.TrimSpace(input.SpotifyURL) == "" {
		return nil, ErrSpotifyURLRequired
	}

	song := &models.ConnectionSong{
		ConnectionID: connectionID,
		Title:        normalized(input.Title),
		SpotifyURL:   strings.TrimSpace(input.SpotifyURL),
	}

	if err := s.connectionRepo.AddSong(ctx, song); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to add song to connection %d: %w", connectionID, err)
	}
	return song, nil
}
