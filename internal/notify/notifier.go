// Package notify renders lifecycle message templates and performs the
// dispatch side effect. Delivery is logged, not sent: the messaging gateway
// is an external collaborator and this service only records what it would
// transmit. A dispatch failure never fails the operation that triggered it.
package notify

import (
	"strings"

	"rental-intake/internal/model"
	"rental-intake/internal/store"

	"go.uber.org/zap"
)

// Notifier sends templated lifecycle messages through the configured gateway
// credentials, falling back to demo logging when none are set.
type Notifier struct {
	Store store.Store
	Log   *zap.Logger
}

// New returns a notifier over the given store.
func New(s store.Store, log *zap.Logger) *Notifier {
	return &Notifier{Store: s, Log: log}
}

// Render substitutes the {name} and {car} placeholders in a template body.
func Render(content, name, car string) string {
	content = strings.ReplaceAll(content, "{name}", name)
	return strings.ReplaceAll(content, "{car}", car)
}

// fallbackBody is used when the lifecycle template is missing entirely.
const fallbackBody = "Hi {name}, your application for the {car} with DJ Auto Rental has been received!"

// SendSMS looks up the template for templateID, fills in the applicant name
// and requested car, and logs the dispatch. Returns the rendered message.
func (n *Notifier) SendSMS(templateID, phone, name, car string) (string, error) {
	settings, err := n.Store.GetSettings()
	if err != nil {
		settings = &model.SystemSettings{}
	}

	templates, err := n.Store.ListSmsTemplates()
	if err != nil {
		return "", err
	}

	body := ""
	for _, t := range templates {
		if t.ID == templateID {
			body = t.Content
			break
		}
	}
	if body == "" {
		body = fallbackBody
	}
	message := Render(body, name, car)

	if settings.Configured() {
		n.Log.Info("Dispatching SMS via configured gateway",
			zap.String("sid", maskSID(settings.TwilioAccountSID)),
			zap.String("from", settings.TwilioPhoneNumber))
	} else {
		n.Log.Info("No gateway credentials configured, SMS dispatch running in demo mode")
	}

	n.Log.Info("SMS dispatch",
		zap.String("template", templateID),
		zap.String("to", phone),
		zap.String("message", message))

	return message, nil
}

// ApplicationReceived sends the post-submission confirmation. Best effort:
// errors are logged by the caller, never surfaced to the applicant.
func (n *Notifier) ApplicationReceived(app *model.Application) error {
	_, err := n.SendSMS(model.TemplateApplicationReceived, app.Phone, app.FullName, app.CarRequested)
	return err
}

// StatusChanged sends the approval or rejection notice for a reviewed
// application. Statuses without a template are silently skipped.
func (n *Notifier) StatusChanged(app *model.Application, status model.ApplicationStatus) error {
	var templateID string
	switch status {
	case model.StatusApproved:
		templateID = model.TemplateApplicationApproved
	case model.StatusRejected:
		templateID = model.TemplateApplicationRejected
	default:
		return nil
	}
	_, err := n.SendSMS(templateID, app.Phone, app.FullName, app.CarRequested)
	return err
}

// maskSID keeps only the prefix of an account SID for log output.
func maskSID(sid string) string {
	if len(sid) <= 6 {
		return sid
	}
	return sid[:6] + "..."
}
