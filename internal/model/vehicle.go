package model

import (
	"time"

	"gorm.io/gorm"
)

// VehicleStatus is the fleet state of a vehicle. Transitions are
// administrator-driven only; no booking flips a vehicle automatically.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleMaintenance:
		return true
	}
	return false
}

// Vehicle is a fleet car available for the rental programs.
type Vehicle struct {
	ID         string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Make       string         `json:"make" gorm:"type:varchar(50);index"`
	Model      string         `json:"model" gorm:"type:varchar(50)"`
	Year       string         `json:"year" gorm:"type:varchar(4)"`
	Color      string         `json:"color" gorm:"type:varchar(30)"`
	VIN        string         `json:"vin" gorm:"type:varchar(50)"`
	Plate      string         `json:"plate" gorm:"type:varchar(20)"`
	Status     VehicleStatus  `json:"status" gorm:"type:varchar(20);default:available"`
	WeeklyRent float64        `json:"weekly_rent"`
	ImageURL   string         `json:"image_url" gorm:"type:varchar(255)"`
	AssignedTo string         `json:"assigned_to,omitempty" gorm:"type:varchar(36)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Label is the display name used for the vehicle snapshot on applications.
func (v *Vehicle) Label() string {
	return v.Year + " " + v.Make + " " + v.Model
}
