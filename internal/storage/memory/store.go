// Package memory keeps templates, appointments, artists and the
// reconciliation outbox in process. It backs local runs with
// storage.driver=memory and the service and transport tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage"
)

type chainKey struct {
	root   string
	artist string
}

type Store struct {
	mu           sync.RWMutex
	templates    map[string]domains.FormTemplate
	chains       map[chainKey][]string
	appointments map[string]domains.Appointment
	artists      map[string]domains.Artist
	outbox       []string
}

func New() *Store {
	return &Store{
		templates:    make(map[string]domains.FormTemplate),
		chains:       make(map[chainKey][]string),
		appointments: make(map[string]domains.Appointment),
		artists:      make(map[string]domains.Artist),
	}
}

func (s *Store) GetFormTemplateByID(_ context.Context, id string) (domains.FormTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return domains.FormTemplate{}, storage.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *Store) GetLatestFormTemplateByArtist(_ context.Context, artistID, rootID string) (domains.FormTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.chains[chainKey{root: rootID, artist: artistID}]
	if len(ids) == 0 {
		return domains.FormTemplate{}, storage.ErrNotFound
	}
	return s.templates[ids[len(ids)-1]].Clone(), nil
}

func (s *Store) ListRootFormTemplates(_ context.Context, services []int64) ([]domains.FormTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roots := make([]domains.FormTemplate, 0)
	for _, t := range s.templates {
		if t.VersionNumber != 0 || t.ParentFormTemplateID != nil || t.RootFormTemplateID != nil || t.IsDeleted {
			continue
		}
		if len(services) > 0 && !t.CoversAny(services) {
			continue
		}
		roots = append(roots, t.Clone())
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].Order != roots[j].Order {
			return roots[i].Order < roots[j].Order
		}
		return roots[i].ID < roots[j].ID
	})
	return roots, nil
}

func (s *Store) InsertFormTemplate(_ context.Context, t domains.FormTemplate) (domains.FormTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[t.ID]; exists {
		return domains.FormTemplate{}, storage.ErrConflict
	}

	stored := t.Clone()
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	var key *chainKey
	if stored.ArtistID != nil && stored.RootFormTemplateID != nil {
		key = &chainKey{root: *stored.RootFormTemplateID, artist: *stored.ArtistID}
		for _, id := range s.chains[*key] {
			if s.templates[id].VersionNumber == stored.VersionNumber {
				return domains.FormTemplate{}, storage.ErrConflict
			}
		}
	}

	s.templates[stored.ID] = stored
	if key != nil {
		ids := append(s.chains[*key], stored.ID)
		slices.SortFunc(ids, func(a, b string) int {
			return s.templates[a].VersionNumber - s.templates[b].VersionNumber
		})
		s.chains[*key] = ids
	}
	return stored.Clone(), nil
}

func (s *Store) UpdateFormTemplateServices(_ context.Context, id string, services []int64) (domains.FormTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.VersionNumber == 0 || t.IsDeleted {
		return domains.FormTemplate{}, storage.ErrNotFound
	}
	t.Services = append([]int64{}, services...)
	t.UpdatedAt = time.Now().UTC()
	s.templates[id] = t
	return t.Clone(), nil
}

func (s *Store) MarkFormTemplateDeleted(_ context.Context, id string, at time.Time) (domains.FormTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.VersionNumber == 0 || t.IsDeleted {
		return domains.FormTemplate{}, storage.ErrNotFound
	}
	t.IsDeleted = true
	t.DeletedAt = &at
	t.UpdatedAt = at
	s.templates[id] = t
	return t.Clone(), nil
}

func (s *Store) PutAppointment(a domains.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Services = append([]int64(nil), a.Services...)
	s.appointments[a.ID] = a
}

func (s *Store) GetAppointment(_ context.Context, id string) (domains.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return domains.Appointment{}, storage.ErrNotFound
	}
	a.Services = append([]int64(nil), a.Services...)
	return a, nil
}

func (s *Store) PutArtist(a domains.Artist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.OfferedServices = append([]int64(nil), a.OfferedServices...)
	s.artists[a.ID] = a
}

func (s *Store) GetArtist(_ context.Context, artistID string) (domains.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artists[artistID]
	if !ok {
		return domains.Artist{}, storage.ErrNotFound
	}
	a.OfferedServices = append([]int64(nil), a.OfferedServices...)
	return a, nil
}

func (s *Store) SetOfferedServices(_ context.Context, artistID string, services []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[artistID]
	if !ok {
		return storage.ErrNotFound
	}
	a.OfferedServices = append([]int64{}, services...)
	s.artists[artistID] = a
	return nil
}

func (s *Store) EnqueueReconciliation(_ context.Context, artistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, artistID)
	return nil
}

func (s *Store) ClaimReconciliations(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.outbox) {
		limit = len(s.outbox)
	}
	claimed := append([]string(nil), s.outbox[:limit]...)
	s.outbox = s.outbox[limit:]
	return claimed, nil
}
