package model

// Template lifecycle ids. Templates are keyed by these fixed ids; defaults are
// seeded when none exist.
const (
	TemplateApplicationReceived = "application_received"
	TemplateApplicationApproved = "application_approved"
	TemplateApplicationRejected = "application_rejected"
)

// SmsTemplate is a parameterized SMS body. The content may contain {name} and
// {car} placeholders filled in at send time.
type SmsTemplate struct {
	ID      string `json:"id" gorm:"type:varchar(50);primaryKey"`
	Name    string `json:"name" gorm:"type:varchar(100)"`
	Content string `json:"content" gorm:"type:text"`
}

// EmailTemplate is a parameterized email with a subject line.
type EmailTemplate struct {
	ID      string `json:"id" gorm:"type:varchar(50);primaryKey"`
	Name    string `json:"name" gorm:"type:varchar(100)"`
	Subject string `json:"subject" gorm:"type:varchar(200)"`
	Content string `json:"content" gorm:"type:text"`
}
