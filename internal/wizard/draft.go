package wizard

import (
	"errors"
	"sync"
	"time"

	"rental-intake/internal/model"

	"github.com/google/uuid"
)

// ErrSignatureMissing gates submission while no signature has been captured.
var ErrSignatureMissing = errors.New("wizard: signature missing")

// Draft is an in-memory, not-yet-persisted application being filled in. It is
// mutable up to submission and discarded if abandoned; there is no recovery.
// Concurrent requests for the same draft must hold its lock.
type Draft struct {
	mu sync.Mutex

	ID        string
	Wizard    *Wizard
	App       model.Application
	Documents map[string]string // slot name -> stored file path
	CreatedAt time.Time
}

// Lock serializes access to the draft across overlapping requests.
func (d *Draft) Lock() { d.mu.Lock() }

// Unlock releases the draft.
func (d *Draft) Unlock() { d.mu.Unlock() }

// NewDraft starts an empty draft at step 0.
func NewDraft() *Draft {
	return &Draft{
		ID:     uuid.New().String(),
		Wizard: New(),
		App: model.Application{
			Status:             model.StatusPending,
			Source:             "organic",
			VerificationStatus: model.VerificationUnverified,
			SignatureDate:      time.Now().Format("2006-01-02"),
		},
		Documents: map[string]string{},
		CreatedAt: time.Now(),
	}
}

// SetSignature validates and attaches a captured signature image. An empty
// value clears the signature and re-disables submission.
func (d *Draft) SetSignature(dataURL string) error {
	if dataURL == "" {
		d.App.SignatureImage = ""
		return nil
	}
	if err := ValidateSignature(dataURL); err != nil {
		return err
	}
	d.App.SignatureImage = dataURL
	return nil
}

// ClearSignature wipes the captured signature.
func (d *Draft) ClearSignature() {
	d.App.SignatureImage = ""
}

// CanSubmit reports whether the draft is submittable. The captured signature
// is the one hard gate; everything else, the final consent included, is only
// reported through Missing.
func (d *Draft) CanSubmit() bool {
	return d.App.SignatureImage != ""
}

// SubmitGate returns ErrSignatureMissing while no signature is captured, nil
// when submittable.
func (d *Draft) SubmitGate() error {
	if d.App.SignatureImage == "" {
		return ErrSignatureMissing
	}
	return nil
}
