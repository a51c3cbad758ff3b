// Package wizard holds the state machine behind the multi-step application
// form: a bounded step index, per-step required-field bookkeeping, and the
// submit gate on the captured signature.
package wizard

import (
	"errors"

	"rental-intake/internal/model"
)

// Steps are the wizard step labels, in order.
var Steps = []string{"Personal", "License", "Vehicle", "Agreements"}

// ErrStepOutOfRange is returned by Jump for an index outside [0, N).
var ErrStepOutOfRange = errors.New("wizard: step out of range")

// Wizard is a linear index-based step machine. Next and Back are bounded;
// Jump allows arbitrary movement, including past unfilled steps.
type Wizard struct {
	steps []string
	index int
}

// New returns a wizard over the given step labels, or the default Steps when
// none are given. The initial step is 0.
func New(steps ...string) *Wizard {
	if len(steps) == 0 {
		steps = Steps
	}
	return &Wizard{steps: steps}
}

// Step returns the current step index.
func (w *Wizard) Step() int { return w.index }

// Label returns the current step label.
func (w *Wizard) Label() string { return w.steps[w.index] }

// Len returns the number of steps.
func (w *Wizard) Len() int { return len(w.steps) }

// IsFinal reports whether the current step is the last one.
func (w *Wizard) IsFinal() bool { return w.index == len(w.steps)-1 }

// Next advances one step, never past the final step, and returns the new
// index.
func (w *Wizard) Next() int {
	if w.index < len(w.steps)-1 {
		w.index++
	}
	return w.index
}

// Back moves one step back, never below 0, and returns the new index.
func (w *Wizard) Back() int {
	if w.index > 0 {
		w.index--
	}
	return w.index
}

// Jump moves directly to step i. Skipping unfilled steps is allowed; the
// submit-time gates are the enforced ones.
func (w *Wizard) Jump(i int) error {
	if i < 0 || i >= len(w.steps) {
		return ErrStepOutOfRange
	}
	w.index = i
	return nil
}

// requiredByStep lists the fields each step expects before submission. The
// wizard reports gaps but never blocks navigation on them.
var requiredByStep = [][]string{
	{"full_name", "dob", "phone", "email", "address", "city", "state", "zip"},
	{"license_number", "license_state", "license_expiration"},
	{"rental_program", "target_platform"},
	{"screening_consent", "signature_name", "final_consent"},
}

// Missing returns the required fields of step i that app has not filled yet.
func Missing(app *model.Application, i int) []string {
	if i < 0 || i >= len(requiredByStep) {
		return nil
	}
	var missing []string
	for _, f := range requiredByStep[i] {
		if !fieldSet(app, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func fieldSet(app *model.Application, field string) bool {
	switch field {
	case "full_name":
		return app.FullName != ""
	case "dob":
		return app.DOB != ""
	case "phone":
		return app.Phone != ""
	case "email":
		return app.Email != ""
	case "address":
		return app.Address != ""
	case "city":
		return app.City != ""
	case "state":
		return app.State != ""
	case "zip":
		return app.Zip != ""
	case "license_number":
		return app.LicenseNumber != ""
	case "license_state":
		return app.LicenseState != ""
	case "license_expiration":
		return app.LicenseExpiration != ""
	case "rental_program":
		return app.RentalProgram != ""
	case "target_platform":
		return app.TargetPlatform != ""
	case "screening_consent":
		return app.ScreeningConsent
	case "signature_name":
		return app.SignatureName != ""
	case "final_consent":
		return app.FinalConsent
	}
	return true
}
