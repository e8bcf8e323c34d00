package service

import (
	"context"
	"fmt"

	"artistforms/internal/domains"
)

type SectionDataInput struct {
	Line     string
	Title    string
	Type     string
	Required *bool
}

type SectionInput struct {
	Title               string
	IsClientInformation *bool
	Data                []SectionDataInput
}

// SectionPatch describes one entry of a batch section update. An empty ID
// means a new section. Skip drops the section from the result.
type SectionPatch struct {
	ID                  string
	Title               string
	IsClientInformation *bool
	Skip                bool
	Data                []SectionDataPatch
}

// SectionDataPatch is one field of a patched section. Skip drops the field.
type SectionDataPatch struct {
	ID       string
	Line     string
	Title    string
	Type     string
	Required *bool
	Skip     bool
}

func (h *FormService) AddData(ctx context.Context, artistID, templateID, sectionID string, input SectionDataInput) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		i, err := findSection(sections, sectionID)
		if err != nil {
			return nil, err
		}
		sections[i].Data = append(sections[i].Data, domains.SectionData{
			ID:       h.newID(),
			Line:     input.Line,
			Title:    input.Title,
			Type:     input.Type,
			Required: input.Required,
		})
		return sections, nil
	})
}

func (h *FormService) UpdateData(ctx context.Context, artistID, templateID, sectionID, dataID string, input SectionDataInput) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		i, err := findSection(sections, sectionID)
		if err != nil {
			return nil, err
		}
		j, err := findData(sections[i], dataID)
		if err != nil {
			return nil, err
		}
		sections[i].Data[j] = domains.SectionData{
			ID:       dataID,
			Line:     input.Line,
			Title:    input.Title,
			Type:     input.Type,
			Required: input.Required,
		}
		return sections, nil
	})
}

func (h *FormService) DeleteData(ctx context.Context, artistID, templateID, sectionID, dataID string) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		i, err := findSection(sections, sectionID)
		if err != nil {
			return nil, err
		}
		j, err := findData(sections[i], dataID)
		if err != nil {
			return nil, err
		}
		sections[i].Data = append(sections[i].Data[:j], sections[i].Data[j+1:]...)
		return sections, nil
	})
}

func (h *FormService) AddSection(ctx context.Context, artistID, templateID string, input SectionInput) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		section := domains.Section{
			ID:                  h.newID(),
			Title:               input.Title,
			IsClientInformation: input.IsClientInformation,
			Data:                make([]domains.SectionData, 0, len(input.Data)),
		}
		for _, d := range input.Data {
			section.Data = append(section.Data, domains.SectionData{
				ID:       h.newID(),
				Line:     d.Line,
				Title:    d.Title,
				Type:     d.Type,
				Required: d.Required,
			})
		}
		return append(sections, section), nil
	})
}

// UpdateSection changes a section's title and keeps its fields. The
// client-information flag is only replaced when isClientInformation is set.
func (h *FormService) UpdateSection(ctx context.Context, artistID, templateID, sectionID, title string, isClientInformation *bool) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		i, err := findSection(sections, sectionID)
		if err != nil {
			return nil, err
		}
		sections[i].Title = title
		if isClientInformation != nil {
			sections[i].IsClientInformation = isClientInformation
		}
		return sections, nil
	})
}

func (h *FormService) DeleteSection(ctx context.Context, artistID, templateID, sectionID string) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		i, err := findSection(sections, sectionID)
		if err != nil {
			return nil, err
		}
		return append(sections[:i], sections[i+1:]...), nil
	})
}

// BatchUpdateSections applies patches keyed by section id. Sections not named
// pass through unchanged; patches without an id are appended as new sections.
func (h *FormService) BatchUpdateSections(ctx context.Context, artistID, templateID string, patches []SectionPatch) (domains.FormTemplate, error) {
	return h.editSections(ctx, artistID, templateID, func(sections []domains.Section) ([]domains.Section, error) {
		byID := make(map[string]SectionPatch, len(patches))
		var added []SectionPatch
		for _, p := range patches {
			if p.ID == "" {
				added = append(added, p)
				continue
			}
			if _, dup := byID[p.ID]; dup {
				return nil, fmt.Errorf("%w: section %s patched twice", ErrInvalidSectionPatch, p.ID)
			}
			if _, err := findSection(sections, p.ID); err != nil {
				return nil, fmt.Errorf("%w: section %s does not exist", ErrInvalidSectionPatch, p.ID)
			}
			byID[p.ID] = p
		}

		result := make([]domains.Section, 0, len(sections)+len(added))
		for _, s := range sections {
			p, ok := byID[s.ID]
			if !ok {
				result = append(result, s)
				continue
			}
			if p.Skip {
				continue
			}
			result = append(result, domains.Section{
				ID:                  s.ID,
				Title:               p.Title,
				IsClientInformation: p.IsClientInformation,
				Data:                keptData(p.Data),
			})
		}

		for _, p := range added {
			if p.Skip {
				continue
			}
			result = append(result, domains.Section{
				ID:                  h.newID(),
				Title:               p.Title,
				IsClientInformation: p.IsClientInformation,
				Data:                keptData(p.Data),
			})
		}
		return result, nil
	})
}

// editSections loads the artist's current version, applies edit to a copy of
// its sections and forks with change detection on.
func (h *FormService) editSections(ctx context.Context, artistID, templateID string, edit func([]domains.Section) ([]domains.Section, error)) (domains.FormTemplate, error) {
	current, err := h.currentForArtist(ctx, artistID, templateID)
	if err != nil {
		return domains.FormTemplate{}, err
	}

	sections, err := edit(domains.CloneSections(current.Sections))
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("form template %s: %w", current.ID, err)
	}

	return h.CreateNewVersion(ctx, artistID, current.ID, sections, VersionOptions{})
}

func keptData(patches []SectionDataPatch) []domains.SectionData {
	data := make([]domains.SectionData, 0, len(patches))
	for _, d := range patches {
		if d.Skip {
			continue
		}
		data = append(data, domains.SectionData{
			ID:       d.ID,
			Line:     d.Line,
			Title:    d.Title,
			Type:     d.Type,
			Required: d.Required,
		})
	}
	return data
}

func findSection(sections []domains.Section, sectionID string) (int, error) {
	for i, s := range sections {
		if s.ID == sectionID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
}

func findData(section domains.Section, dataID string) (int, error) {
	for i, d := range section.Data {
		if d.ID == dataID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s in section %s", ErrSectionDataNotFound, dataID, section.ID)
}
