package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"rental-intake/internal/model"
	"rental-intake/internal/store"
	"rental-intake/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestEnv wires the handlers against the local demo backend in a
// throwaway directory.
func createTestEnv(t *testing.T) {
	t.Helper()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverLocal, DataDir: t.TempDir()},
		Upload:  config.UploadConfig{MaxSizeMB: 5, AllowedTypes: []string{"image/jpeg", "image/png", "application/pdf"}, Dir: t.TempDir()},
		Geocode: config.GeocodeConfig{BaseURL: "http://127.0.0.1:0", UserAgent: "test"},
	}
	require.NoError(t, store.Init(cfg))
	Init(cfg)
}

func createTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func createTestSignature(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSubmitApplicationSnapshotsKnownVehicle(t *testing.T) {
	createTestEnv(t)
	// Seed the demo fleet
	_, err := store.Get().ListVehicles()
	require.NoError(t, err)

	c, rec := createTestContext(t, http.MethodPost, "/applications",
		`{"full_name":"Jane Doe","email":"jane@example.com","phone":"(210) 555-0188","selected_vehicle_id":"v1"}`)
	require.NoError(t, SubmitApplication(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	app, err := store.Get().GetApplication(id)
	require.NoError(t, err)
	assert.Equal(t, "2023 Toyota Camry SE", app.CarRequested)
	assert.Equal(t, float64(350), app.WeeklyRent)
	assert.Equal(t, "SAMPLE123456", app.VIN)
	assert.Equal(t, model.StatusPending, app.Status)
}

func TestSubmitApplicationUnknownVehicleStillSucceeds(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/applications",
		`{"full_name":"Jane Doe","email":"jane@example.com","selected_vehicle_id":"no-such-car"}`)
	require.NoError(t, SubmitApplication(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	id, _ := body["id"].(string)

	app, err := store.Get().GetApplication(id)
	require.NoError(t, err)
	assert.Empty(t, app.CarRequested)
	assert.Zero(t, app.WeeklyRent)
}

func TestSubmitLead(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/leads",
		`{"name":"Jane Doe","email":"jane@example.com","phone":"(210) 555-0188","message":"Is the Elantra still available?"}`)
	require.NoError(t, SubmitLead(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	leads, err := store.Get().ListLeads()
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane Doe", leads[0].Name)
	assert.Equal(t, "website_contact", leads[0].Source)
}

func TestSubmitLeadRequiresFields(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/leads", `{"name":"Jane Doe"}`)
	require.NoError(t, SubmitLead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateApplicationStatus(t *testing.T) {
	createTestEnv(t)
	app := &model.Application{FullName: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, store.Get().CreateApplication(app))

	for _, status := range []string{"approved", "rejected"} {
		c, rec := createTestContext(t, http.MethodPut, "/api/admin/applications/"+app.ID+"/status",
			`{"status":"`+status+`"}`)
		c.SetParamNames("id")
		c.SetParamValues(app.ID)
		require.NoError(t, UpdateApplicationStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// The second transition overwrote the first without a guard
	got, err := store.Get().GetApplication(app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
}

func TestUpdateApplicationStatusRejectsUnknownStatus(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPut, "/api/admin/applications/x/status", `{"status":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("x")
	require.NoError(t, UpdateApplicationStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateApplicationStatusNotFound(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPut, "/api/admin/applications/missing/status", `{"status":"approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, UpdateApplicationStatus(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAvailableVehiclesFiltersRented(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodGet, "/vehicles", "")
	require.NoError(t, ListAvailableVehicles(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var vehicles []model.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vehicles))
	require.Len(t, vehicles, 2)
	for _, v := range vehicles {
		assert.Equal(t, model.VehicleAvailable, v.Status)
	}
}

func TestDraftWizardFlow(t *testing.T) {
	createTestEnv(t)

	// Create
	c, rec := createTestContext(t, http.MethodPost, "/drafts", "")
	require.NoError(t, CreateDraft(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeBody(t, rec)
	id, _ := state["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, float64(0), state["step"])
	assert.Equal(t, "Personal", state["step_label"])

	// Fill in personal fields
	c, rec = createTestContext(t, http.MethodPatch, "/drafts/"+id,
		`{"full_name":"Jane Doe","email":"jane@example.com","phone":"(210) 555-0188","dob":"1992-07-01","address":"100 Main St","city":"San Antonio","state":"TX","zip":"78201"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, PatchDraft(c))
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeBody(t, rec)
	assert.Nil(t, state["missing"])

	// Navigate forward
	c, rec = createTestContext(t, http.MethodPost, "/drafts/"+id+"/navigate", `{"direction":"next"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, NavigateDraft(c))
	state = decodeBody(t, rec)
	assert.Equal(t, float64(1), state["step"])

	// Jumping straight to the final step is allowed
	c, rec = createTestContext(t, http.MethodPost, "/drafts/"+id+"/navigate", `{"direction":"jump","step":3}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, NavigateDraft(c))
	state = decodeBody(t, rec)
	assert.Equal(t, float64(3), state["step"])
	assert.Equal(t, true, state["is_final"])

	// Submit is gated until the signature is captured
	c, rec = createTestContext(t, http.MethodPost, "/drafts/"+id+"/submit", "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, SubmitDraft(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The signature alone opens the gate
	c, rec = createTestContext(t, http.MethodPut, "/drafts/"+id+"/signature",
		`{"image":"`+createTestSignature(t)+`"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, SetDraftSignature(c))
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeBody(t, rec)
	assert.Equal(t, true, state["can_submit"])

	c, rec = createTestContext(t, http.MethodPatch, "/drafts/"+id,
		`{"signature_name":"Jane Doe","final_consent":true,"screening_consent":true}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, PatchDraft(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = createTestContext(t, http.MethodPost, "/drafts/"+id+"/submit", "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, SubmitDraft(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	appID, _ := body["id"].(string)

	app, err := store.Get().GetApplication(appID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", app.FullName)
	assert.True(t, app.FinalConsent)

	// The draft is gone after submission
	c, rec = createTestContext(t, http.MethodGet, "/drafts/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, GetDraft(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearSignatureReDisablesSubmit(t *testing.T) {
	createTestEnv(t)

	d, rec := createTestContext(t, http.MethodPost, "/drafts", "")
	require.NoError(t, CreateDraft(d))
	id, _ := decodeBody(t, rec)["id"].(string)

	c, _ := createTestContext(t, http.MethodPut, "/drafts/"+id+"/signature",
		`{"image":"`+createTestSignature(t)+`"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, SetDraftSignature(c))

	c, _ = createTestContext(t, http.MethodPatch, "/drafts/"+id, `{"final_consent":true}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, PatchDraft(c))

	c, rec = createTestContext(t, http.MethodDelete, "/drafts/"+id+"/signature", "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, ClearDraftSignature(c))
	state := decodeBody(t, rec)
	assert.Equal(t, false, state["can_submit"])

	c, rec = createTestContext(t, http.MethodPost, "/drafts/"+id+"/submit", "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, SubmitDraft(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDraftConcurrentPatchAndRead(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/drafts", "")
	require.NoError(t, CreateDraft(c))
	id, _ := decodeBody(t, rec)["id"].(string)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			body := `{"full_name":"Writer ` + strconv.Itoa(n) + `","phone":"55501` + strconv.Itoa(n) + `"}`
			pc, prec := createTestContext(t, http.MethodPatch, "/drafts/"+id, body)
			pc.SetParamNames("id")
			pc.SetParamValues(id)
			if err := PatchDraft(pc); err != nil {
				t.Errorf("patch %d: %v", n, err)
			} else if prec.Code != http.StatusOK {
				t.Errorf("patch %d: status %d", n, prec.Code)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			gc, grec := createTestContext(t, http.MethodGet, "/drafts/"+id, "")
			gc.SetParamNames("id")
			gc.SetParamValues(id)
			if err := GetDraft(gc); err != nil {
				t.Errorf("read %d: %v", n, err)
			} else if grec.Code != http.StatusOK {
				t.Errorf("read %d: status %d", n, grec.Code)
			}
		}(i)
	}
	wg.Wait()

	d, ok := Drafts.get(id)
	require.True(t, ok)
	d.Lock()
	name := d.App.FullName
	d.Unlock()
	assert.True(t, strings.HasPrefix(name, "Writer "), "got %q", name)
}

func TestUploadDraftDocumentRejectionLeavesSlotUnchanged(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/drafts", "")
	require.NoError(t, CreateDraft(c))
	id, _ := decodeBody(t, rec)["id"].(string)

	// Store a valid image first
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	c, rec = createTestUpload(t, id, "selfie", "selfie.png", img.Bytes())
	require.NoError(t, UploadDraftDocument(c))
	require.Equal(t, http.StatusOK, rec.Code)

	d, ok := Drafts.get(id)
	require.True(t, ok)
	accepted := d.Documents["selfie"]
	require.NotEmpty(t, accepted)

	// A disallowed replacement is refused and the slot keeps the old file
	c, rec = createTestUpload(t, id, "selfie", "selfie.txt", []byte("plain text, not an image"))
	require.NoError(t, UploadDraftDocument(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	d, _ = Drafts.get(id)
	assert.Equal(t, accepted, d.Documents["selfie"])
}

func TestUploadDraftDocumentUnknownSlot(t *testing.T) {
	createTestEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/drafts", "")
	require.NoError(t, CreateDraft(c))
	id, _ := decodeBody(t, rec)["id"].(string)

	c, rec = createTestUpload(t, id, "resume", "resume.pdf", []byte("%PDF-1.4"))
	require.NoError(t, UploadDraftDocument(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func createTestUpload(t *testing.T, draftID, slot, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+draftID+"/documents/"+slot, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id", "slot")
	c.SetParamValues(draftID, slot)
	return c, rec
}
