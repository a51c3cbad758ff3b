package wizard

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"rental-intake/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSignature(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestWizardNextIsBoundedFromEveryStep(t *testing.T) {
	for start := 0; start < len(Steps); start++ {
		w := New()
		require.NoError(t, w.Jump(start))

		got := w.Next()

		want := start + 1
		if want > len(Steps)-1 {
			want = len(Steps) - 1
		}
		assert.Equal(t, want, got, "next from step %d", start)
	}
}

func TestWizardBackIsBoundedFromEveryStep(t *testing.T) {
	for start := 0; start < len(Steps); start++ {
		w := New()
		require.NoError(t, w.Jump(start))

		got := w.Back()

		want := start - 1
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, got, "back from step %d", start)
	}
}

func TestWizardJump(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		wantErr bool
	}{
		{name: "first step", step: 0},
		{name: "last step", step: len(Steps) - 1},
		{name: "skipping ahead is allowed", step: 3},
		{name: "negative", step: -1, wantErr: true},
		{name: "past the end", step: len(Steps), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			err := w.Jump(tt.step)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrStepOutOfRange)
				assert.Equal(t, 0, w.Step())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.step, w.Step())
		})
	}
}

func TestMissingReportsUnfilledFields(t *testing.T) {
	app := &model.Application{}

	missing := Missing(app, 0)
	assert.Contains(t, missing, "full_name")
	assert.Contains(t, missing, "email")

	app.FullName = "Jane Doe"
	app.DOB = "1990-04-12"
	app.Phone = "(210) 555-0188"
	app.Email = "jane@example.com"
	app.Address = "100 Main St"
	app.City = "San Antonio"
	app.State = "TX"
	app.Zip = "78201"
	assert.Empty(t, Missing(app, 0))

	// Unfilled agreement step still reports, regardless of current position
	missing = Missing(app, 3)
	assert.Contains(t, missing, "screening_consent")
	assert.Contains(t, missing, "final_consent")
}

func TestMissingOutOfRangeStep(t *testing.T) {
	assert.Nil(t, Missing(&model.Application{}, -1))
	assert.Nil(t, Missing(&model.Application{}, len(Steps)))
}

func TestDraftSubmitGate(t *testing.T) {
	d := NewDraft()
	sig := createTestSignature(t)

	// Fresh draft: no signature
	assert.False(t, d.CanSubmit())
	assert.ErrorIs(t, d.SubmitGate(), ErrSignatureMissing)

	// The captured signature is the only hard gate; unchecked consent and
	// unfilled fields stay advisory
	require.NoError(t, d.SetSignature(sig))
	assert.False(t, d.App.FinalConsent)
	assert.True(t, d.CanSubmit())
	assert.NoError(t, d.SubmitGate())
	assert.Contains(t, Missing(&d.App, 3), "final_consent")

	// Clearing the signature re-disables submission
	d.ClearSignature()
	assert.False(t, d.CanSubmit())
	assert.ErrorIs(t, d.SubmitGate(), ErrSignatureMissing)
}

func TestSetSignatureRejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not a data url", payload: "hello"},
		{name: "wrong media type", payload: "data:image/gif;base64,R0lGOD"},
		{name: "bad base64", payload: "data:image/png;base64,!!!"},
		{name: "not an image", payload: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			assert.ErrorIs(t, d.SetSignature(tt.payload), ErrInvalidSignature)
			assert.Empty(t, d.App.SignatureImage)
		})
	}
}

func TestSetSignatureEmptyClears(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.SetSignature(createTestSignature(t)))
	require.NotEmpty(t, d.App.SignatureImage)

	require.NoError(t, d.SetSignature(""))
	assert.Empty(t, d.App.SignatureImage)
}
