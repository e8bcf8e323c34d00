package domains

import (
	"time"
)

type SectionData struct {
	ID       string `json:"id" yaml:"id"`
	Line     string `json:"line" yaml:"line"`
	Title    string `json:"title" yaml:"title"`
	Type     string `json:"type,omitempty" yaml:"type"`
	Required *bool  `json:"required,omitempty" yaml:"required"`
}

type Section struct {
	ID                  string        `json:"id" yaml:"id"`
	Title               string        `json:"title" yaml:"title"`
	IsClientInformation *bool         `json:"isClientInformation,omitempty" yaml:"isClientInformation"`
	Data                []SectionData `json:"data" yaml:"data"`
}

// FormTemplate is one immutable version in a template chain. A root has no
// ArtistID and VersionNumber 0; every other document is an artist fork whose
// RootFormTemplateID points directly at the root.
type FormTemplate struct {
	ID                          string     `db:"id" json:"id"`
	ArtistID                    *string    `db:"artist_id" json:"artistId"`
	ParentFormTemplateID        *string    `db:"parent_form_template_id" json:"parentFormTemplateId"`
	RootFormTemplateID          *string    `db:"root_form_template_id" json:"rootFormTemplateId"`
	VersionNumber               int        `db:"version_number" json:"versionNumber"`
	Order                       int        `db:"ord" json:"order"`
	Title                       string     `db:"title" json:"title"`
	Type                        string     `db:"type" json:"type"`
	Tags                        []string   `db:"tags" json:"tags"`
	UsesServicesArrayVersioning bool       `db:"uses_services_array_versioning" json:"usesServicesArrayVersioning"`
	Sections                    []Section  `db:"sections" json:"sections"`
	Services                    []int64    `db:"services" json:"services"`
	IsDeleted                   bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt                   *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt                   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt                   time.Time  `db:"updated_at" json:"updatedAt"`
}

func (t FormTemplate) IsRoot() bool {
	return t.VersionNumber == 0
}

// ChainRootID returns the id of the version-0 document of t's chain.
func (t FormTemplate) ChainRootID() string {
	if t.RootFormTemplateID != nil && *t.RootFormTemplateID != "" {
		return *t.RootFormTemplateID
	}
	return t.ID
}

// OwnedByOther reports whether t is a fork that belongs to an artist other than artistID.
func (t FormTemplate) OwnedByOther(artistID string) bool {
	return t.ArtistID != nil && *t.ArtistID != "" && *t.ArtistID != artistID
}

func (t FormTemplate) HasService(service int64) bool {
	for _, s := range t.Services {
		if s == service {
			return true
		}
	}
	return false
}

func (t FormTemplate) CoversAny(services []int64) bool {
	for _, s := range services {
		if t.HasService(s) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can edit sections without touching the
// stored version.
func (t FormTemplate) Clone() FormTemplate {
	out := t
	out.ArtistID = cloneString(t.ArtistID)
	out.ParentFormTemplateID = cloneString(t.ParentFormTemplateID)
	out.RootFormTemplateID = cloneString(t.RootFormTemplateID)
	out.Tags = append([]string(nil), t.Tags...)
	out.Services = append([]int64(nil), t.Services...)
	out.Sections = CloneSections(t.Sections)
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		out.DeletedAt = &at
	}
	return out
}

func CloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s
		out[i].IsClientInformation = cloneBool(s.IsClientInformation)
		if s.Data != nil {
			out[i].Data = make([]SectionData, len(s.Data))
			for j, d := range s.Data {
				out[i].Data[j] = d
				out[i].Data[j].Required = cloneBool(d.Required)
			}
		}
	}
	return out
}

type FormTemplateList struct {
	Metadata Pagination     `json:"metadata"`
	Forms    []FormTemplate `json:"forms"`
}

type RootTemplateSeed struct {
	ID                          string    `yaml:"id"`
	Title                       string    `yaml:"title"`
	Type                        string    `yaml:"type"`
	Order                       int       `yaml:"order"`
	Tags                        []string  `yaml:"tags"`
	UsesServicesArrayVersioning bool      `yaml:"usesServicesArrayVersioning"`
	Services                    []int64   `yaml:"services"`
	Sections                    []Section `yaml:"sections"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
