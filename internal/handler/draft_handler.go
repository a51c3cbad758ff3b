package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"rental-intake/internal/store"
	"rental-intake/internal/upload"
	"rental-intake/internal/wizard"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DraftManager holds in-flight application drafts in memory. Drafts are
// request-scoped working state, never persisted: an abandoned draft is simply
// discarded, with no recovery.
type DraftManager struct {
	mu     sync.RWMutex
	drafts map[string]*wizard.Draft
}

func NewDraftManager() *DraftManager {
	return &DraftManager{drafts: map[string]*wizard.Draft{}}
}

func (m *DraftManager) get(id string) (*wizard.Draft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[id]
	return d, ok
}

func (m *DraftManager) put(d *wizard.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = d
	prometheus.ActiveDraftsGauge.Set(float64(len(m.drafts)))
}

func (m *DraftManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	prometheus.ActiveDraftsGauge.Set(float64(len(m.drafts)))
}

// draftState is the wizard view returned after every draft operation.
type draftState struct {
	ID        string            `json:"id"`
	Step      int               `json:"step"`
	StepLabel string            `json:"step_label"`
	Steps     []string          `json:"steps"`
	IsFinal   bool              `json:"is_final"`
	Missing   []string          `json:"missing,omitempty"`
	CanSubmit bool              `json:"can_submit"`
	Documents map[string]string `json:"documents"`
}

func stateOf(d *wizard.Draft) draftState {
	return draftState{
		ID:        d.ID,
		Step:      d.Wizard.Step(),
		StepLabel: d.Wizard.Label(),
		Steps:     wizard.Steps,
		IsFinal:   d.Wizard.IsFinal(),
		Missing:   wizard.Missing(&d.App, d.Wizard.Step()),
		CanSubmit: d.CanSubmit(),
		Documents: d.Documents,
	}
}

// CreateDraft starts a new application draft at step 0.
func CreateDraft(c echo.Context) error {
	prometheus.DraftOperationCounter.WithLabelValues("create").Inc()

	d := wizard.NewDraft()
	if uid, ok := c.Get("uid").(string); ok {
		d.App.UserID = uid
	}
	Drafts.put(d)
	return c.JSON(http.StatusCreated, stateOf(d))
}

// GetDraft returns the wizard state of a draft.
func GetDraft(c echo.Context) error {
	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	d.Lock()
	defer d.Unlock()
	return c.JSON(http.StatusOK, stateOf(d))
}

// PatchDraft merges submitted fields into the draft. Every field stays
// mutable until submission.
func PatchDraft(c echo.Context) error {
	prometheus.DraftOperationCounter.WithLabelValues("patch").Inc()

	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}

	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	// The signature has its own endpoint with validation
	delete(fields, "signature_image")
	delete(fields, "id")
	delete(fields, "status")

	d.Lock()
	defer d.Unlock()

	data, err := json.Marshal(fields)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := json.Unmarshal(data, &d.App); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field value"})
	}

	return c.JSON(http.StatusOK, stateOf(d))
}

// NavigateDraft moves the wizard: direction "next", "back", or a jump to an
// explicit step index. Navigation never blocks on unfilled fields; the
// response reports what is still missing.
func NavigateDraft(c echo.Context) error {
	prometheus.DraftOperationCounter.WithLabelValues("navigate").Inc()

	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}

	var req struct {
		Direction string `json:"direction"`
		Step      *int   `json:"step,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	d.Lock()
	defer d.Unlock()

	switch req.Direction {
	case "next":
		d.Wizard.Next()
	case "back":
		d.Wizard.Back()
	case "jump":
		if req.Step == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "jump requires a step"})
		}
		if err := d.Wizard.Jump(*req.Step); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "step out of range"})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid direction"})
	}

	return c.JSON(http.StatusOK, stateOf(d))
}

// SetDraftSignature attaches a captured signature image to the draft.
func SetDraftSignature(c echo.Context) error {
	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	d.Lock()
	defer d.Unlock()

	if err := d.SetSignature(req.Image); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature image"})
	}
	return c.JSON(http.StatusOK, stateOf(d))
}

// ClearDraftSignature wipes the captured signature, re-disabling submit.
func ClearDraftSignature(c echo.Context) error {
	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	d.Lock()
	defer d.Unlock()
	d.ClearSignature()
	return c.JSON(http.StatusOK, stateOf(d))
}

// UploadDraftDocument attaches a document to a draft slot. Rejected files
// leave the slot unchanged.
func UploadDraftDocument(c echo.Context) error {
	log := logger.FromContext(c)

	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}

	slot := c.Param("slot")
	if !upload.ValidSlot(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown document slot"})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	stored, err := Uploads.Accept(d.ID, slot, header)
	if err != nil {
		if rej, ok := err.(*upload.RejectionError); ok {
			prometheus.UploadRejectionCounter.WithLabelValues(rej.Code).Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": rej.Reason})
		}
		log.Error("Failed to store upload", zap.String("slot", slot), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store file"})
	}

	d.Lock()
	d.Documents[slot] = stored.Path
	d.Unlock()
	return c.JSON(http.StatusOK, stored)
}

// SubmitDraft finalizes the draft. Submission is gated on the captured
// signature alone; unfilled fields were only ever advisory.
func SubmitDraft(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.DraftOperationCounter.WithLabelValues("submit").Inc()

	d, ok := Drafts.get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	d.Lock()
	defer d.Unlock()

	if err := d.SubmitGate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	app := d.App
	app.ProofOfAddress = d.Documents["proof_of_address"]
	app.ProofOfIncome = d.Documents["proof_of_income"]
	app.LicenseFront = d.Documents["license_front"]
	app.LicenseBack = d.Documents["license_back"]
	app.Selfie = d.Documents["selfie"]

	snapshotVehicle(&app)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.Get().CreateApplication(&app); err != nil {
		log.Error("Failed to save application", zap.String("draft_id", d.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit application"})
	}
	prometheus.ApplicationSubmittedCounter.Inc()
	Drafts.remove(d.ID)

	log.Info("Draft submitted", zap.String("draft_id", d.ID), zap.String("application_id", app.ID))

	submitted := app
	dispatchAsync(func(n notifierIface) error { return n.ApplicationReceived(&submitted) })

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Application submitted.",
		"id":      app.ID,
	})
}

// DiscardDraft drops a draft and its stored documents.
func DiscardDraft(c echo.Context) error {
	prometheus.DraftOperationCounter.WithLabelValues("discard").Inc()

	id := c.Param("id")
	if _, ok := Drafts.get(id); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	Drafts.remove(id)
	if Uploads != nil {
		if err := Uploads.Discard(id); err != nil {
			logger.FromContext(c).Warn("Failed to remove draft uploads", zap.String("draft_id", id), zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
