package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage/memory"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, policy ResolutionPolicy) (*FormService, *memory.Store) {
	t.Helper()
	store := memory.New()
	log, _ := test.NewNullLogger()
	svc := NewFormService(store, store, store, policy, log)
	svc.now = func() time.Time { return fixedNow }
	generated := 0
	svc.newID = func() string {
		generated++
		return fmt.Sprintf("gen-%d", generated)
	}
	return svc, store
}

func boolPtr(b bool) *bool { return &b }

func sampleSections() []domains.Section {
	return []domains.Section{
		{
			ID:                  "s1",
			Title:               "Client information",
			IsClientInformation: boolPtr(true),
			Data: []domains.SectionData{
				{ID: "d1", Line: "Full name", Title: "fullName", Type: "text", Required: boolPtr(true)},
			},
		},
		{
			ID:    "s2",
			Title: "Health",
			Data: []domains.SectionData{
				{ID: "d2", Line: "Allergies", Title: "allergies", Type: "textarea"},
				{ID: "d3", Line: "Pregnant", Title: "pregnant", Type: "checkbox", Required: boolPtr(true)},
			},
		},
	}
}

func seedRoot(t *testing.T, store *memory.Store, id string, services ...int64) domains.FormTemplate {
	t.Helper()
	root, err := store.InsertFormTemplate(context.Background(), domains.FormTemplate{
		ID:                          id,
		Title:                       "Template " + id,
		Type:                        "intake",
		Order:                       1,
		Tags:                        []string{"health"},
		UsesServicesArrayVersioning: true,
		Sections:                    sampleSections(),
		Services:                    services,
		CreatedAt:                   fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return root
}

// editedSections returns the sample sections with the first title changed.
func editedSections(title string) []domains.Section {
	sections := sampleSections()
	sections[0].Title = title
	return sections
}
