package model

import "time"

// Lead is a contact inquiry from the website. Leads are append-only; nothing
// in the service mutates or deletes them.
type Lead struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)"`
	Subject   string    `json:"subject" gorm:"type:varchar(200)"`
	Message   string    `json:"message" gorm:"type:text"`
	Source    string    `json:"source" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
}
