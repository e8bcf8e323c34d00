package seed

import (
	"context"
	"testing"
	"time"

	"artistforms/internal/storage/memory"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
templates:
  - id: consent
    title: Consent form
    type: consent
    order: 1
    services: [1, 2]
    sections:
      - id: s1
        title: Client
        isClientInformation: true
        data:
          - id: d1
            line: "Full name"
            title: name
            type: text
            required: true
  - id: aftercare
    title: Aftercare
    services: [3]
    sections: []
`

func TestParse(t *testing.T) {
	seeds, err := Parse([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	consent := seeds[0]
	assert.Equal(t, "consent", consent.ID)
	assert.Equal(t, []int64{1, 2}, consent.Services)
	require.Len(t, consent.Sections, 1)
	require.NotNil(t, consent.Sections[0].IsClientInformation)
	assert.True(t, *consent.Sections[0].IsClientInformation)
	require.Len(t, consent.Sections[0].Data, 1)
	require.NotNil(t, consent.Sections[0].Data[0].Required)
	assert.Equal(t, "Full name", consent.Sections[0].Data[0].Line)
}

func TestParseRejectsDuplicatesAndMissingIDs(t *testing.T) {
	_, err := Parse([]byte("templates:\n  - title: no id\n"))
	require.Error(t, err)

	_, err = Parse([]byte("templates:\n  - id: a\n  - id: a\n"))
	require.Error(t, err)
}

func TestApplySkipsExistingRoots(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seeds, err := Parse([]byte(seedYAML))
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	inserted, err := Apply(ctx, store, seeds, now, log)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = Apply(ctx, store, seeds, now, log)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	root, err := store.GetFormTemplateByID(ctx, "consent")
	require.NoError(t, err)
	assert.Equal(t, 0, root.VersionNumber)
	assert.Nil(t, root.ArtistID)
	assert.Nil(t, root.RootFormTemplateID)
	assert.Equal(t, now, root.CreatedAt)
}
