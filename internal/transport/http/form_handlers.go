package httptransport

import (
	"context"
	"errors"
	"net/http"

	"artistforms/internal/domains"
	"artistforms/internal/httpx"
	"artistforms/internal/service"
	"artistforms/internal/storage"

	"github.com/gorilla/mux"
)

type FormServices interface {
	RootTemplates(ctx context.Context, services []int64) ([]domains.FormTemplate, error)
	GetFormTemplate(ctx context.Context, id string) (domains.FormTemplate, error)
	FormsForAppointment(ctx context.Context, appointmentID string) (domains.FormTemplateList, error)
	CreateNewVersion(ctx context.Context, artistID, referenceID string, sections []domains.Section, opts service.VersionOptions) (domains.FormTemplate, error)
	UpdateServices(ctx context.Context, artistID, templateID string, services []int64) (domains.FormTemplate, error)
	DeleteFormTemplate(ctx context.Context, artistID, templateID string) error
	BatchUpdateSections(ctx context.Context, artistID, templateID string, patches []service.SectionPatch) (domains.FormTemplate, error)
	AddSection(ctx context.Context, artistID, templateID string, input service.SectionInput) (domains.FormTemplate, error)
	UpdateSection(ctx context.Context, artistID, templateID, sectionID, title string, isClientInformation *bool) (domains.FormTemplate, error)
	DeleteSection(ctx context.Context, artistID, templateID, sectionID string) (domains.FormTemplate, error)
	AddData(ctx context.Context, artistID, templateID, sectionID string, input service.SectionDataInput) (domains.FormTemplate, error)
	UpdateData(ctx context.Context, artistID, templateID, sectionID, dataID string, input service.SectionDataInput) (domains.FormTemplate, error)
	DeleteData(ctx context.Context, artistID, templateID, sectionID, dataID string) (domains.FormTemplate, error)
}

type ArtistServices interface {
	MyForms(ctx context.Context, artistID string) ([]domains.FormTemplate, error)
}

type FormHandlers struct {
	forms   FormServices
	artists ArtistServices
}

func NewFormHandlers(forms FormServices, artists ArtistServices) *FormHandlers {
	return &FormHandlers{
		forms:   forms,
		artists: artists,
	}
}

func (h *FormHandlers) RootTemplates(w http.ResponseWriter, r *http.Request) {
	services, err := httpx.ParseServices(r.URL.Query().Get("services"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	forms, err := h.forms.RootTemplates(r.Context(), services)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormsResponse{Forms: forms})
}

func (h *FormHandlers) MyForms(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}

	forms, err := h.artists.MyForms(r.Context(), artistID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormsResponse{Forms: forms})
}

func (h *FormHandlers) FormsForAppointment(w http.ResponseWriter, r *http.Request) {
	list, err := h.forms.FormsForAppointment(r.Context(), mux.Vars(r)["appointmentId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *FormHandlers) GetFormTemplate(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.GetFormTemplate(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) CreateNewVersion(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[NewFormVersionRequest](w, r)
	if !ok {
		return
	}

	form, err := h.forms.CreateNewVersion(r.Context(), artistID, body.FormTemplateID, body.toSections(), service.VersionOptions{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, form)
}

func (h *FormHandlers) UpdateServices(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[UpdateServicesRequest](w, r)
	if !ok {
		return
	}

	form, err := h.forms.UpdateServices(r.Context(), artistID, mux.Vars(r)["templateId"], body.Services)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) UpdateSections(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[UpdateSectionsRequest](w, r)
	if !ok {
		return
	}

	form, err := h.forms.BatchUpdateSections(r.Context(), artistID, mux.Vars(r)["templateId"], body.toPatches())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) AddSection(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[AddSectionRequest](w, r)
	if !ok {
		return
	}

	form, err := h.forms.AddSection(r.Context(), artistID, mux.Vars(r)["templateId"], body.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, FormResponse{Form: form})
}

func (h *FormHandlers) UpdateSection(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[UpdateSectionRequest](w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	form, err := h.forms.UpdateSection(r.Context(), artistID, vars["templateId"], vars["sectionId"], body.Title, body.IsClientInformation)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) DeleteSection(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	form, err := h.forms.DeleteSection(r.Context(), artistID, vars["templateId"], vars["sectionId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) AddData(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[SectionDataInputRequest](w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	form, err := h.forms.AddData(r.Context(), artistID, vars["templateId"], vars["sectionId"], body.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, FormResponse{Form: form})
}

func (h *FormHandlers) UpdateData(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}
	body, ok := httpx.ReadValidBody[SectionDataInputRequest](w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	form, err := h.forms.UpdateData(r.Context(), artistID, vars["templateId"], vars["sectionId"], vars["dataId"], body.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) DeleteData(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	form, err := h.forms.DeleteData(r.Context(), artistID, vars["templateId"], vars["sectionId"], vars["dataId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{Form: form})
}

func (h *FormHandlers) DeleteFormTemplate(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.forms.DeleteFormTemplate(r.Context(), artistID, mux.Vars(r)["templateId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, MessageResponse{Message: "Form template deleted successfully"})
}

func artistFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	artistID, ok := httpx.ArtistIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return artistID, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrBadRequest):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrConflict):
		httpx.Error(w, http.StatusConflict, "form template was modified concurrently, retry the request")
	default:
		httpx.LoggerFromContext(r.Context()).WithError(err).Error("request failed")
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
