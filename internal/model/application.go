package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus is the review state of a driver application.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusContacted ApplicationStatus = "contacted"
)

// Valid reports whether s is one of the known application statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusContacted:
		return true
	}
	return false
}

// RentalProgram is the program the applicant is applying for.
type RentalProgram string

const (
	ProgramRent      RentalProgram = "rent"
	ProgramRentToOwn RentalProgram = "rent-to-own"
)

// RidesharePlatform is the gig platform the applicant drives for.
type RidesharePlatform string

const (
	PlatformUber     RidesharePlatform = "uber"
	PlatformLyft     RidesharePlatform = "lyft"
	PlatformDoordash RidesharePlatform = "doordash"
	PlatformUberEats RidesharePlatform = "ubereats"
	PlatformAmazon   RidesharePlatform = "amazon"
	PlatformOther    RidesharePlatform = "other"
)

// VerificationStatus tracks the identity screening state of an application.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationChecking   VerificationStatus = "checking"
	VerificationVerified   VerificationStatus = "verified"
	VerificationFlagged    VerificationStatus = "flagged"
)

// Application is a submitted driver application. The vehicle snapshot fields
// (car_requested, weekly_rent, vin) are denormalized from the selected vehicle
// at submit time; they stay empty when the selected vehicle id is unknown.
type Application struct {
	ID     string            `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID string            `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	Status ApplicationStatus `json:"status" gorm:"type:varchar(20);index;default:pending"`
	Source string            `json:"source" gorm:"type:varchar(50)"`

	// Personal
	FullName       string `json:"full_name" gorm:"type:varchar(100)"`
	DOB            string `json:"dob" gorm:"type:varchar(10)"`
	Phone          string `json:"phone" gorm:"type:varchar(20);index"`
	Email          string `json:"email" gorm:"type:varchar(100);index"`
	Address        string `json:"address" gorm:"type:varchar(200)"`
	City           string `json:"city" gorm:"type:varchar(100)"`
	State          string `json:"state" gorm:"type:varchar(50)"`
	Zip            string `json:"zip" gorm:"type:varchar(10)"`
	EmergencyName  string `json:"emergency_name" gorm:"type:varchar(100)"`
	EmergencyPhone string `json:"emergency_phone" gorm:"type:varchar(20)"`

	// License
	LicenseNumber     string `json:"license_number" gorm:"type:varchar(50)"`
	LicenseState      string `json:"license_state" gorm:"type:varchar(50)"`
	LicenseExpiration string `json:"license_expiration" gorm:"type:varchar(10)"`

	// Uploaded document references (stored paths, not file contents)
	ProofOfAddress string `json:"proof_of_address,omitempty" gorm:"type:varchar(255)"`
	ProofOfIncome  string `json:"proof_of_income,omitempty" gorm:"type:varchar(255)"`
	LicenseFront   string `json:"license_front,omitempty" gorm:"type:varchar(255)"`
	LicenseBack    string `json:"license_back,omitempty" gorm:"type:varchar(255)"`
	Selfie         string `json:"selfie,omitempty" gorm:"type:varchar(255)"`

	VerificationStatus VerificationStatus `json:"verification_status" gorm:"type:varchar(20);default:unverified"`
	VerificationNotes  string             `json:"verification_notes" gorm:"type:text"`

	// Vehicle selection and snapshot
	SelectedVehicleID string  `json:"selected_vehicle_id,omitempty" gorm:"type:varchar(36)"`
	CarRequested      string  `json:"car_requested" gorm:"type:varchar(100)"`
	WeeklyRent        float64 `json:"weekly_rent,omitempty"`
	VIN               string  `json:"vin" gorm:"type:varchar(50)"`

	RentalProgram  RentalProgram     `json:"rental_program" gorm:"type:varchar(20)"`
	StartDate      string            `json:"start_date" gorm:"type:varchar(10)"`
	EndDate        string            `json:"end_date" gorm:"type:varchar(10)"`
	TargetPlatform RidesharePlatform `json:"target_platform" gorm:"type:varchar(20)"`
	UsageType      string            `json:"usage_type" gorm:"type:varchar(20)"`

	// Insurance and payment
	HasInsurance       string `json:"has_insurance" gorm:"type:varchar(5)"`
	InsuranceCompany   string `json:"insurance_company" gorm:"type:varchar(100)"`
	PolicyNumber       string `json:"policy_number" gorm:"type:varchar(50)"`
	InsuranceAgreement bool   `json:"insurance_agreement"`
	PaymentMethod      string `json:"payment_method" gorm:"type:varchar(20)"`
	DepositAgreement   bool   `json:"deposit_agreement"`

	// Driving history
	HistoryAccidents  string `json:"history_accidents" gorm:"type:varchar(5)"`
	HistoryDUI        string `json:"history_dui" gorm:"type:varchar(5)"`
	HistorySuspension string `json:"history_suspension" gorm:"type:varchar(5)"`

	// Agreement checklist
	ScreeningConsent bool `json:"screening_consent"`
	RuleSmoking      bool `json:"rule_smoking"`
	RuleRacing       bool `json:"rule_racing"`
	RuleCrossing     bool `json:"rule_crossing"`
	RuleSubRent      bool `json:"rule_sub_rent"`
	RuleMileage      bool `json:"rule_mileage"`
	RuleFuel         bool `json:"rule_fuel"`
	RuleReport       bool `json:"rule_report"`

	// Signature
	SignatureName  string `json:"signature_name" gorm:"type:varchar(100)"`
	SignatureImage string `json:"signature_image,omitempty" gorm:"type:text"`
	SignatureDate  string `json:"signature_date" gorm:"type:varchar(10)"`
	FinalConsent   bool   `json:"final_consent"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
