package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FormTemplateProvider interface {
	GetFormTemplateByID(ctx context.Context, id string) (domains.FormTemplate, error)
	GetLatestFormTemplateByArtist(ctx context.Context, artistID, rootID string) (domains.FormTemplate, error)
	ListRootFormTemplates(ctx context.Context, services []int64) ([]domains.FormTemplate, error)
	InsertFormTemplate(ctx context.Context, template domains.FormTemplate) (domains.FormTemplate, error)
	UpdateFormTemplateServices(ctx context.Context, id string, services []int64) (domains.FormTemplate, error)
	MarkFormTemplateDeleted(ctx context.Context, id string, at time.Time) (domains.FormTemplate, error)
}

type AppointmentProvider interface {
	GetAppointment(ctx context.Context, id string) (domains.Appointment, error)
}

// ReconcileQueue accepts ReconcileArtistServices commands for later processing.
type ReconcileQueue interface {
	EnqueueReconciliation(ctx context.Context, artistID string) error
}

type VersionOptions struct {
	SkipChangeDetection bool
	// Services replaces the copied service list when non-nil.
	Services  []int64
	IsDeleted bool
}

type FormService struct {
	provider     FormTemplateProvider
	appointments AppointmentProvider
	queue        ReconcileQueue
	policy       ResolutionPolicy
	log          logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

func NewFormService(provider FormTemplateProvider, appointments AppointmentProvider, queue ReconcileQueue, policy ResolutionPolicy, log logrus.FieldLogger) *FormService {
	return &FormService{
		provider:     provider,
		appointments: appointments,
		queue:        queue,
		policy:       policy,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// GetFormTemplate loads a document by id, deleted or not.
func (h *FormService) GetFormTemplate(ctx context.Context, id string) (domains.FormTemplate, error) {
	template, err := h.provider.GetFormTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domains.FormTemplate{}, fmt.Errorf("%w: %s", ErrFormTemplateNotFound, id)
		}
		return domains.FormTemplate{}, fmt.Errorf("load form template %s: %w", id, err)
	}
	return template, nil
}

func (h *FormService) RootTemplates(ctx context.Context, services []int64) ([]domains.FormTemplate, error) {
	roots, err := h.provider.ListRootFormTemplates(ctx, services)
	if err != nil {
		h.log.WithError(err).Error("list root templates failed")
		return nil, err
	}
	return roots, nil
}

// LatestForArtist returns the highest-numbered version artistID owns in the
// chain rooted at rootID, or nil when the artist never forked it. Deleted
// versions are returned as well.
func (h *FormService) LatestForArtist(ctx context.Context, artistID, rootID string) (*domains.FormTemplate, error) {
	latest, err := h.provider.GetLatestFormTemplateByArtist(ctx, artistID, rootID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load latest version of %s for %s: %w", rootID, artistID, err)
	}
	return &latest, nil
}

// CreateNewVersion forks the chain of referenceID for artistID with the given
// sections. The artist's latest version (or the reference when there is none)
// is the parent; it is never modified.
func (h *FormService) CreateNewVersion(ctx context.Context, artistID, referenceID string, sections []domains.Section, opts VersionOptions) (domains.FormTemplate, error) {
	reference, err := h.GetFormTemplate(ctx, referenceID)
	if err != nil {
		return domains.FormTemplate{}, err
	}
	if reference.IsDeleted {
		return domains.FormTemplate{}, fmt.Errorf("%w: %s", ErrFormTemplateNotFound, referenceID)
	}

	latest, err := h.LatestForArtist(ctx, artistID, reference.ChainRootID())
	if err != nil {
		return domains.FormTemplate{}, err
	}
	if latest == nil {
		latest = &reference
	}

	if latest.OwnedByOther(artistID) {
		return domains.FormTemplate{}, ErrFormTemplateForbidden
	}

	if sections == nil {
		sections = []domains.Section{}
	}
	if !opts.SkipChangeDetection {
		changed, err := sectionsChanged(latest.Sections, sections)
		if err != nil {
			return domains.FormTemplate{}, err
		}
		if !changed {
			return domains.FormTemplate{}, ErrNoChangesDetected
		}
	}

	next := h.buildNextVersion(*latest, artistID, sections, opts)

	created, err := h.provider.InsertFormTemplate(ctx, next)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"artist_id":   artistID,
			"template_id": next.ID,
		}).Error("insert form template version failed")
		return domains.FormTemplate{}, fmt.Errorf("create version %s: %w", next.ID, err)
	}

	h.log.WithFields(logrus.Fields{
		"artist_id":      artistID,
		"template_id":    created.ID,
		"parent_id":      latest.ID,
		"version_number": created.VersionNumber,
		"is_deleted":     created.IsDeleted,
	}).Info("form template version created")
	return created, nil
}

// buildNextVersion derives the identity of the version after latest and
// copies only the descriptive fields forward.
func (h *FormService) buildNextVersion(latest domains.FormTemplate, artistID string, sections []domains.Section, opts VersionOptions) domains.FormTemplate {
	versionNumber := latest.VersionNumber + 1

	rootID := latest.ID
	if latest.VersionNumber > 0 && latest.RootFormTemplateID != nil {
		rootID = *latest.RootFormTemplateID
	}

	services := append([]int64{}, latest.Services...)
	if opts.Services != nil {
		services = append([]int64{}, opts.Services...)
	}

	now := h.now()
	next := domains.FormTemplate{
		ID:                          fmt.Sprintf("%s-%s-%d", rootID, artistID, versionNumber),
		ArtistID:                    &artistID,
		ParentFormTemplateID:        &latest.ID,
		RootFormTemplateID:          &rootID,
		VersionNumber:               versionNumber,
		Order:                       latest.Order,
		Title:                       latest.Title,
		Type:                        latest.Type,
		Tags:                        append([]string{}, latest.Tags...),
		UsesServicesArrayVersioning: latest.UsesServicesArrayVersioning,
		Sections:                    domains.CloneSections(sections),
		Services:                    services,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
	if opts.IsDeleted {
		next.IsDeleted = true
		next.DeletedAt = &now
	}
	return next
}

// UpdateServices replaces the service list of the artist's current version.
// An existing fork is updated in place; a root is forked instead.
func (h *FormService) UpdateServices(ctx context.Context, artistID, templateID string, services []int64) (domains.FormTemplate, error) {
	current, err := h.currentForArtist(ctx, artistID, templateID)
	if err != nil {
		return domains.FormTemplate{}, err
	}

	deduped := dedupeServices(services)

	if current.VersionNumber > 0 {
		updated, err := h.provider.UpdateFormTemplateServices(ctx, current.ID, deduped)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domains.FormTemplate{}, fmt.Errorf("%w: %s", ErrFormTemplateNotFound, current.ID)
			}
			h.log.WithError(err).WithField("template_id", current.ID).Error("update services failed")
			return domains.FormTemplate{}, err
		}
		return updated, nil
	}

	return h.CreateNewVersion(ctx, artistID, current.ID, current.Sections, VersionOptions{
		SkipChangeDetection: true,
		Services:            deduped,
	})
}

// DeleteFormTemplate soft-deletes the artist's current version of the chain.
// Roots stay untouched: the artist receives a deleted fork that shadows it.
func (h *FormService) DeleteFormTemplate(ctx context.Context, artistID, templateID string) error {
	current, err := h.currentForArtist(ctx, artistID, templateID)
	if err != nil {
		return err
	}

	latest, err := h.LatestForArtist(ctx, artistID, current.ChainRootID())
	if err != nil {
		return err
	}
	if latest != nil && latest.IsDeleted {
		return fmt.Errorf("%w: %s", ErrFormTemplateNotFound, templateID)
	}

	if current.VersionNumber > 0 {
		if _, err := h.provider.MarkFormTemplateDeleted(ctx, current.ID, h.now()); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrFormTemplateNotFound, current.ID)
			}
			h.log.WithError(err).WithField("template_id", current.ID).Error("delete form template failed")
			return err
		}
	} else {
		if _, err := h.CreateNewVersion(ctx, artistID, current.ID, current.Sections, VersionOptions{
			SkipChangeDetection: true,
			IsDeleted:           true,
		}); err != nil {
			return err
		}
	}

	if err := h.queue.EnqueueReconciliation(ctx, artistID); err != nil {
		h.log.WithError(err).WithField("artist_id", artistID).Error("enqueue service reconciliation failed")
	}
	return nil
}

// currentForArtist resolves templateID to the document an edit by artistID
// should start from: the artist's live latest fork of the chain if one
// exists, otherwise the referenced document itself.
func (h *FormService) currentForArtist(ctx context.Context, artistID, templateID string) (domains.FormTemplate, error) {
	reference, err := h.GetFormTemplate(ctx, templateID)
	if err != nil {
		return domains.FormTemplate{}, err
	}
	if reference.IsDeleted {
		return domains.FormTemplate{}, fmt.Errorf("%w: %s", ErrFormTemplateNotFound, templateID)
	}
	if reference.OwnedByOther(artistID) {
		return domains.FormTemplate{}, ErrFormTemplateForbidden
	}

	latest, err := h.LatestForArtist(ctx, artistID, reference.ChainRootID())
	if err != nil {
		return domains.FormTemplate{}, err
	}
	switch {
	case latest == nil:
		return reference, nil
	case !latest.IsDeleted:
		return *latest, nil
	case reference.IsRoot():
		// a deleted chain can only be restarted from the shared root
		return reference, nil
	default:
		return domains.FormTemplate{}, fmt.Errorf("%w: %s", ErrFormTemplateNotFound, templateID)
	}
}

func dedupeServices(services []int64) []int64 {
	seen := make(map[int64]struct{}, len(services))
	out := make([]int64, 0, len(services))
	for _, s := range services {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
