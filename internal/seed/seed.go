// Package seed loads the shared version-0 templates from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type RootInserter interface {
	InsertFormTemplate(ctx context.Context, template domains.FormTemplate) (domains.FormTemplate, error)
}

type file struct {
	Templates []domains.RootTemplateSeed `yaml:"templates"`
}

func Load(path string) ([]domains.RootTemplateSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]domains.RootTemplateSeed, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Templates))
	for i, s := range f.Templates {
		if s.ID == "" {
			return nil, fmt.Errorf("template #%d has no id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("template %s listed twice", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return f.Templates, nil
}

// Apply inserts every seed as a root and returns how many were new. Roots
// that already exist are skipped.
func Apply(ctx context.Context, store RootInserter, seeds []domains.RootTemplateSeed, now time.Time, log logrus.FieldLogger) (int, error) {
	inserted := 0
	for _, s := range seeds {
		_, err := store.InsertFormTemplate(ctx, Root(s, now))
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.WithField("template_id", s.ID).Info("root template exists, skipped")
		case err != nil:
			return inserted, fmt.Errorf("insert root template %s: %w", s.ID, err)
		default:
			inserted++
		}
	}
	return inserted, nil
}

func Root(s domains.RootTemplateSeed, now time.Time) domains.FormTemplate {
	return domains.FormTemplate{
		ID:                          s.ID,
		VersionNumber:               0,
		Order:                       s.Order,
		Title:                       s.Title,
		Type:                        s.Type,
		Tags:                        s.Tags,
		UsesServicesArrayVersioning: s.UsesServicesArrayVersioning,
		Sections:                    s.Sections,
		Services:                    s.Services,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
}
