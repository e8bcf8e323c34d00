package service

import (
	"context"
	"errors"
	"fmt"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/sirupsen/logrus"
)

type ArtistProvider interface {
	GetArtist(ctx context.Context, artistID string) (domains.Artist, error)
	SetOfferedServices(ctx context.Context, artistID string, services []int64) error
}

type ArtistService struct {
	forms   *FormService
	artists ArtistProvider
	log     logrus.FieldLogger
}

func NewArtistService(forms *FormService, artists ArtistProvider, log logrus.FieldLogger) *ArtistService {
	return &ArtistService{
		forms:   forms,
		artists: artists,
		log:     log,
	}
}

// MyForms lists the templates the artist currently uses.
func (s *ArtistService) MyForms(ctx context.Context, artistID string) ([]domains.FormTemplate, error) {
	artist, err := s.artists.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domains.FormTemplate{}, nil
		}
		return nil, fmt.Errorf("load artist %s: %w", artistID, err)
	}
	return s.forms.ArtistForms(ctx, artist.ID, artist.OfferedServices)
}

// ReconcileArtistServices removes every offered service no template of the
// artist covers any more. It returns the removed services.
func (s *ArtistService) ReconcileArtistServices(ctx context.Context, artistID string) ([]int64, error) {
	artist, err := s.artists.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load artist %s: %w", artistID, err)
	}

	counts := make(map[int64]int, len(artist.OfferedServices))
	for _, service := range artist.OfferedServices {
		counts[service] = 0
	}

	forms, err := s.forms.ArtistForms(ctx, artist.ID, artist.OfferedServices)
	if err != nil {
		return nil, err
	}
	for _, form := range forms {
		for _, service := range form.Services {
			if _, offered := counts[service]; offered {
				counts[service]++
			}
		}
	}

	kept := make([]int64, 0, len(artist.OfferedServices))
	var removed []int64
	for _, service := range artist.OfferedServices {
		if counts[service] == 0 {
			removed = append(removed, service)
			continue
		}
		kept = append(kept, service)
	}
	if len(removed) == 0 {
		return nil, nil
	}

	if err := s.artists.SetOfferedServices(ctx, artist.ID, kept); err != nil {
		return nil, fmt.Errorf("update offered services of %s: %w", artist.ID, err)
	}
	s.log.WithFields(logrus.Fields{
		"artist_id": artist.ID,
		"removed":   removed,
	}).Info("pruned services without a covering form")
	return removed, nil
}
