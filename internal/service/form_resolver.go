package service

import (
	"context"
	"errors"
	"fmt"

	"artistforms/internal/domains"
	"artistforms/internal/storage"
)

// ResolutionPolicy decides whether an artist fork whose own services no
// longer intersect an appointment still stands in for its root.
type ResolutionPolicy string

const (
	// ResolveByRootCoverage uses the fork whenever the root matched the
	// appointment, whatever the fork's own services are.
	ResolveByRootCoverage ResolutionPolicy = "root"
	// ResolveByForkCoverage drops the chain unless the fork itself lists one
	// of the appointment's services.
	ResolveByForkCoverage ResolutionPolicy = "fork"
)

func ParseResolutionPolicy(value string) (ResolutionPolicy, error) {
	switch ResolutionPolicy(value) {
	case "", ResolveByRootCoverage:
		return ResolveByRootCoverage, nil
	case ResolveByForkCoverage:
		return ResolveByForkCoverage, nil
	default:
		return "", fmt.Errorf("unknown resolution policy %q", value)
	}
}

// FormsForAppointment returns the template versions a client must complete
// for appointmentID: every root sharing a service with the appointment,
// replaced by the artist's fork where one exists.
func (h *FormService) FormsForAppointment(ctx context.Context, appointmentID string) (domains.FormTemplateList, error) {
	appointment, err := h.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domains.FormTemplateList{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, appointmentID)
		}
		return domains.FormTemplateList{}, fmt.Errorf("load appointment %s: %w", appointmentID, err)
	}
	if len(appointment.Services) == 0 {
		return domains.FormTemplateList{
			Metadata: domains.NewPagination(0, 1, 0),
			Forms:    []domains.FormTemplate{},
		}, nil
	}

	roots, err := h.provider.ListRootFormTemplates(ctx, appointment.Services)
	if err != nil {
		return domains.FormTemplateList{}, fmt.Errorf("list root templates: %w", err)
	}

	forms, err := h.resolveChains(ctx, appointment.ArtistID, roots, func(fork domains.FormTemplate) bool {
		if len(fork.Services) == 0 {
			return false
		}
		return h.policy != ResolveByForkCoverage || fork.CoversAny(appointment.Services)
	})
	if err != nil {
		return domains.FormTemplateList{}, err
	}

	return domains.FormTemplateList{
		Metadata: domains.NewPagination(len(roots), 1, len(roots)),
		Forms:    forms,
	}, nil
}

// ArtistForms returns the templates artistID currently uses for the given
// offered services. Forks with an empty service list are kept so the artist
// can still see and repair them.
func (h *FormService) ArtistForms(ctx context.Context, artistID string, offered []int64) ([]domains.FormTemplate, error) {
	if len(offered) == 0 {
		return []domains.FormTemplate{}, nil
	}
	roots, err := h.provider.ListRootFormTemplates(ctx, offered)
	if err != nil {
		return nil, fmt.Errorf("list root templates: %w", err)
	}
	return h.resolveChains(ctx, artistID, roots, func(domains.FormTemplate) bool { return true })
}

// resolveChains maps each root to the artist's latest live fork (if accepted)
// or the root itself. Deleted forks remove their chain. Each chain appears
// at most once.
func (h *FormService) resolveChains(ctx context.Context, artistID string, roots []domains.FormTemplate, accept func(fork domains.FormTemplate) bool) ([]domains.FormTemplate, error) {
	seen := make(map[string]struct{}, len(roots))
	forms := make([]domains.FormTemplate, 0, len(roots))
	for _, root := range roots {
		if _, dup := seen[root.ID]; dup {
			continue
		}
		seen[root.ID] = struct{}{}

		latest, err := h.LatestForArtist(ctx, artistID, root.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case latest == nil:
			forms = append(forms, root)
		case latest.IsDeleted:
		case accept(*latest):
			forms = append(forms, *latest)
		}
	}
	return forms, nil
}
