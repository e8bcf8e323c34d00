package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artistforms/internal/config"
	"artistforms/internal/domains"
	"artistforms/internal/httpx"
	"artistforms/internal/service"
	"artistforms/internal/storage/memory"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	router *mux.Router
	store  *memory.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := memory.New()
	forms := service.NewFormService(store, store, store, service.ResolveByRootCoverage, log)
	artists := service.NewArtistService(forms, store, log)

	cfg := &config.Config{JWT: config.JWTSecret{Secret: testSecret}}

	_, err := store.InsertFormTemplate(context.Background(), domains.FormTemplate{
		ID:       "consent",
		Title:    "Consent",
		Services: []int64{1, 2},
		Sections: []domains.Section{{
			ID:    "s1",
			Title: "Client",
			Data:  []domains.SectionData{{ID: "d1", Line: "Name", Title: "name", Type: "text"}},
		}},
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	return testServer{router: Router(forms, artists, cfg, log), store: store}
}

func (s testServer) do(t *testing.T, artistID, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	if artistID != "" {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": artistID,
			"exp": time.Now().Add(time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/api/forms/root-templates", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCreateNewVersionHandler(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"formTemplateId": "consent",
		"sections": []map[string]interface{}{{
			"id":    "s1",
			"title": "About you",
			"data":  []map[string]interface{}{{"id": "d1", "line": "Name", "title": "name", "type": "text"}},
		}},
	}

	rec := s.do(t, "a1", http.MethodPost, "/api/forms/new-version", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	form := decode[domains.FormTemplate](t, rec)
	assert.Equal(t, "consent-a1-1", form.ID)
	assert.Equal(t, 1, form.VersionNumber)

	rec = s.do(t, "a1", http.MethodPost, "/api/forms/new-version", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[httpx.ErrorResponse](t, rec).Error, "no changes detected")

	rec = s.do(t, "a2", http.MethodPost, "/api/forms/new-version", map[string]interface{}{
		"formTemplateId": "consent-a1-1",
		"sections":       body["sections"],
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, "a1", http.MethodPost, "/api/forms/new-version", map[string]interface{}{
		"formTemplateId": "missing",
		"sections":       body["sections"],
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{name: "new version without reference", method: http.MethodPost, path: "/api/forms/new-version", body: map[string]interface{}{"sections": []interface{}{}}},
		{name: "empty services", method: http.MethodPut, path: "/api/forms/consent/update-services", body: map[string]interface{}{"services": []int64{}}},
		{name: "section without title", method: http.MethodPost, path: "/api/forms/consent/sections", body: map[string]interface{}{"data": []interface{}{}}},
		{name: "field without line", method: http.MethodPost, path: "/api/forms/consent/sections/s1/data", body: map[string]interface{}{"title": "x"}},
		{name: "patch without title", method: http.MethodPatch, path: "/api/forms/consent/update-sections", body: map[string]interface{}{"sections": []map[string]interface{}{{"id": "s1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, "a1", tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[httpx.ErrorResponse](t, rec)
			assert.Equal(t, "validation failed", resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestSectionRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "a1", http.MethodPost, "/api/forms/consent/sections", map[string]interface{}{"title": "Aftercare"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[FormResponse](t, rec).Form
	require.Len(t, added.Sections, 2)
	newSection := added.Sections[1].ID

	rec = s.do(t, "a1", http.MethodPost, "/api/forms/consent/sections/"+newSection+"/data", map[string]interface{}{"line": "Sign here", "title": "signature"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withData := decode[FormResponse](t, rec).Form
	assert.Equal(t, 2, withData.VersionNumber)
	dataID := withData.Sections[1].Data[0].ID

	rec = s.do(t, "a1", http.MethodPatch, "/api/forms/consent/sections/"+newSection+"/data/"+dataID, map[string]interface{}{"line": "Sign", "title": "signature"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, "a1", http.MethodPatch, "/api/forms/consent/sections/"+newSection, map[string]interface{}{"title": "Care"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Care", decode[FormResponse](t, rec).Form.Sections[1].Title)

	rec = s.do(t, "a1", http.MethodDelete, "/api/forms/consent/sections/"+newSection+"/data/"+dataID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, "a1", http.MethodDelete, "/api/forms/consent/sections/"+newSection, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	final := decode[FormResponse](t, rec).Form
	assert.Equal(t, 6, final.VersionNumber)
	assert.Len(t, final.Sections, 1)

	rec = s.do(t, "a1", http.MethodDelete, "/api/forms/consent/sections/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSectionsRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "a1", http.MethodPatch, "/api/forms/consent/update-sections", map[string]interface{}{
		"sections": []map[string]interface{}{
			{"id": "s1", "skip": true},
			{"title": "Consent", "data": []map[string]interface{}{{"id": "c1", "line": "I agree", "title": "agree", "type": "checkbox"}}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	form := decode[FormResponse](t, rec).Form
	require.Len(t, form.Sections, 1)
	assert.Equal(t, "Consent", form.Sections[0].Title)

	rec = s.do(t, "a1", http.MethodPatch, "/api/forms/consent/update-sections", map[string]interface{}{
		"sections": []map[string]interface{}{{"id": "nope", "title": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServicesDeleteAndReads(t *testing.T) {
	s := newTestServer(t)
	s.store.PutAppointment(domains.Appointment{ID: "appt-1", ArtistID: "a1", Services: []int64{2}})
	s.store.PutArtist(domains.Artist{ID: "a1", OfferedServices: []int64{1, 2}})

	rec := s.do(t, "a1", http.MethodGet, "/api/forms/root-templates?services=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[FormsResponse](t, rec).Forms, 1)

	rec = s.do(t, "a1", http.MethodGet, "/api/forms/root-templates?services=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "a1", http.MethodPut, "/api/forms/consent/update-services", map[string]interface{}{"services": []int64{1, 1}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fork := decode[FormResponse](t, rec).Form
	assert.Equal(t, "consent-a1-1", fork.ID)
	assert.Equal(t, []int64{1}, fork.Services)

	rec = s.do(t, "client", http.MethodGet, "/api/forms/appointment/appt-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[domains.FormTemplateList](t, rec)
	require.Len(t, list.Forms, 1)
	assert.Equal(t, "consent-a1-1", list.Forms[0].ID)
	assert.Equal(t, 1, list.Metadata.Total)

	rec = s.do(t, "a1", http.MethodGet, "/api/forms/my-forms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[FormsResponse](t, rec).Forms, 1)

	rec = s.do(t, "a1", http.MethodDelete, "/api/forms/consent/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Form template deleted successfully", decode[MessageResponse](t, rec).Message)

	rec = s.do(t, "a1", http.MethodDelete, "/api/forms/consent/delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, "client", http.MethodGet, "/api/forms/appointment/appt-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[domains.FormTemplateList](t, rec).Forms)

	rec = s.do(t, "a1", http.MethodGet, "/api/forms/consent-a1-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[FormResponse](t, rec).Form.IsDeleted)

	rec = s.do(t, "a1", http.MethodGet, "/api/forms/appointment/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
