package model

// SystemSettings holds the messaging gateway credentials. One row per
// deployment; the store always reads and writes the row with ID 1.
type SystemSettings struct {
	ID                uint   `json:"-" gorm:"primaryKey"`
	TwilioAccountSID  string `json:"twilio_account_sid" gorm:"type:varchar(100)"`
	TwilioAuthToken   string `json:"twilio_auth_token" gorm:"type:varchar(100)"`
	TwilioPhoneNumber string `json:"twilio_phone_number" gorm:"type:varchar(20)"`
}

// Configured reports whether all gateway credentials are present.
func (s *SystemSettings) Configured() bool {
	return s.TwilioAccountSID != "" && s.TwilioAuthToken != "" && s.TwilioPhoneNumber != ""
}
