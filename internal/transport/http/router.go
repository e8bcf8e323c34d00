package httptransport

import (
	"net/http"

	"artistforms/internal/config"
	"artistforms/internal/httpx"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func Router(forms FormServices, artists ArtistServices, cfg *config.Config, log logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()
	router.Use(httpx.RequestLogger(log))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	formHandler := NewFormHandlers(forms, artists)

	api := router.PathPrefix("/api").Subrouter()

	f := api.PathPrefix("/forms").Subrouter()
	f.Use(httpx.Protected(cfg.JWT.Secret))
	f.HandleFunc("/root-templates", formHandler.RootTemplates).Methods(http.MethodGet)
	f.HandleFunc("/my-forms", formHandler.MyForms).Methods(http.MethodGet)
	f.HandleFunc("/appointment/{appointmentId}", formHandler.FormsForAppointment).Methods(http.MethodGet)
	f.HandleFunc("/new-version", formHandler.CreateNewVersion).Methods(http.MethodPost)
	f.HandleFunc("/{templateId}", formHandler.GetFormTemplate).Methods(http.MethodGet)
	f.HandleFunc("/{templateId}/update-services", formHandler.UpdateServices).Methods(http.MethodPut)
	f.HandleFunc("/{templateId}/update-sections", formHandler.UpdateSections).Methods(http.MethodPatch)
	f.HandleFunc("/{templateId}/delete", formHandler.DeleteFormTemplate).Methods(http.MethodDelete)
	f.HandleFunc("/{templateId}/sections", formHandler.AddSection).Methods(http.MethodPost)
	f.HandleFunc("/{templateId}/sections/{sectionId}", formHandler.UpdateSection).Methods(http.MethodPatch)
	f.HandleFunc("/{templateId}/sections/{sectionId}", formHandler.DeleteSection).Methods(http.MethodDelete)
	f.HandleFunc("/{templateId}/sections/{sectionId}/data", formHandler.AddData).Methods(http.MethodPost)
	f.HandleFunc("/{templateId}/sections/{sectionId}/data/{dataId}", formHandler.UpdateData).Methods(http.MethodPatch)
	f.HandleFunc("/{templateId}/sections/{sectionId}/data/{dataId}", formHandler.DeleteData).Methods(http.MethodDelete)

	return router
}
