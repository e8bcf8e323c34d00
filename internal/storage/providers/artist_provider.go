package providers

import (
	"context"
	"errors"
	"fmt"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArtistProvider struct {
	db *pgxpool.Pool
}

func NewArtistProvider(db *pgxpool.Pool) *ArtistProvider {
	return &ArtistProvider{
		db: db,
	}
}

func (s *ArtistProvider) GetArtist(ctx context.Context, artistID string) (domains.Artist, error) {
	var artist domains.Artist
	err := s.db.QueryRow(ctx, `
        SELECT user_id, offered_services
        FROM artists
        WHERE user_id = $1`, artistID).Scan(&artist.ID, &artist.OfferedServices)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Artist{}, storage.ErrNotFound
		}
		return domains.Artist{}, fmt.Errorf("query artist: %w", err)
	}
	return artist, nil
}

func (s *ArtistProvider) SetOfferedServices(ctx context.Context, artistID string, services []int64) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE artists
        SET offered_services = $2
        WHERE user_id = $1`, artistID, nonNilServices(services))
	if err != nil {
		return fmt.Errorf("update offered services: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
