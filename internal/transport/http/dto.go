package httptransport

import (
	"artistforms/internal/domains"
	"artistforms/internal/service"
)

type SectionDataRequest struct {
	ID       string `json:"id" validate:"required"`
	Line     string `json:"line" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Type     string `json:"type"`
	Required *bool  `json:"required"`
}

type SectionRequest struct {
	ID                  string               `json:"id" validate:"required"`
	Title               string               `json:"title" validate:"required"`
	IsClientInformation *bool                `json:"isClientInformation"`
	Data                []SectionDataRequest `json:"data" validate:"dive"`
}

type NewFormVersionRequest struct {
	FormTemplateID string           `json:"formTemplateId" validate:"required"`
	Sections       []SectionRequest `json:"sections" validate:"required,dive"`
}

type UpdateServicesRequest struct {
	Services []int64 `json:"services" validate:"required,min=1"`
}

type SectionDataPatchRequest struct {
	ID       string `json:"id" validate:"required"`
	Line     string `json:"line" validate:"required_unless=Skip true"`
	Title    string `json:"title" validate:"required_unless=Skip true"`
	Type     string `json:"type" validate:"required_unless=Skip true"`
	Required *bool  `json:"required"`
	Skip     bool   `json:"skip"`
}

type SectionPatchRequest struct {
	ID                  string                    `json:"id"`
	Title               string                    `json:"title" validate:"required_unless=Skip true"`
	IsClientInformation *bool                     `json:"isClientInformation"`
	Skip                bool                      `json:"skip"`
	Data                []SectionDataPatchRequest `json:"data" validate:"dive"`
}

type UpdateSectionsRequest struct {
	Sections []SectionPatchRequest `json:"sections" validate:"required,dive"`
}

type SectionDataInputRequest struct {
	Line     string `json:"line" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Type     string `json:"type"`
	Required *bool  `json:"required"`
}

type AddSectionRequest struct {
	Title               string                    `json:"title" validate:"required"`
	IsClientInformation *bool                     `json:"isClientInformation"`
	Data                []SectionDataInputRequest `json:"data" validate:"dive"`
}

type UpdateSectionRequest struct {
	Title               string `json:"title" validate:"required"`
	IsClientInformation *bool  `json:"isClientInformation"`
}

type FormResponse struct {
	Form domains.FormTemplate `json:"form"`
}

type FormsResponse struct {
	Forms []domains.FormTemplate `json:"forms"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (r NewFormVersionRequest) toSections() []domains.Section {
	sections := make([]domains.Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		section := domains.Section{
			ID:                  s.ID,
			Title:               s.Title,
			IsClientInformation: s.IsClientInformation,
			Data:                make([]domains.SectionData, 0, len(s.Data)),
		}
		for _, d := range s.Data {
			section.Data = append(section.Data, domains.SectionData{
				ID:       d.ID,
				Line:     d.Line,
				Title:    d.Title,
				Type:     d.Type,
				Required: d.Required,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

func (r UpdateSectionsRequest) toPatches() []service.SectionPatch {
	patches := make([]service.SectionPatch, 0, len(r.Sections))
	for _, s := range r.Sections {
		patch := service.SectionPatch{
			ID:                  s.ID,
			Title:               s.Title,
			IsClientInformation: s.IsClientInformation,
			Skip:                s.Skip,
			Data:                make([]service.SectionDataPatch, 0, len(s.Data)),
		}
		for _, d := range s.Data {
			patch.Data = append(patch.Data, service.SectionDataPatch{
				ID:       d.ID,
				Line:     d.Line,
				Title:    d.Title,
				Type:     d.Type,
				Required: d.Required,
				Skip:     d.Skip,
			})
		}
		patches = append(patches, patch)
	}
	return patches
}

func (r SectionDataInputRequest) toInput() service.SectionDataInput {
	return service.SectionDataInput{
		Line:     r.Line,
		Title:    r.Title,
		Type:     r.Type,
		Required: r.Required,
	}
}

func (r AddSectionRequest) toInput() service.SectionInput {
	input := service.SectionInput{
		Title:               r.Title,
		IsClientInformation: r.IsClientInformation,
		Data:                make([]service.SectionDataInput, 0, len(r.Data)),
	}
	for _, d := range r.Data {
		input.Data = append(input.Data, d.toInput())
	}
	return input
}
