// internal/model/driver.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Driver document slots. Each column holds the public URL of the stored
// object for that slot, uploaded independently of the others.
const (
	SlotDriversLicense  = "drivers_license_photo"
	SlotPoliceRecords   = "police_records_photo"
	SlotCriminalRecords = "criminal_records_photo"
	SlotProfilePhoto    = "profile_photo"
)

type Driver struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName             string    `gorm:"type:text;not null" json:"full_name" validate:"required"`
	Address              string    `gorm:"type:text" json:"address"`
	Phone                string    `gorm:"type:text" json:"phone"`
	Email                string    `gorm:"type:text" json:"email"`
	DriversLicensePhoto  string    `gorm:"type:text;column:drivers_license_photo" json:"drivers_license_photo"`
	PoliceRecordsPhoto   string    `gorm:"type:text;column:police_records_photo" json:"police_records_photo"`
	CriminalRecordsPhoto string    `gorm:"type:text;column:criminal_records_photo" json:"criminal_records_photo"`
	ProfilePhoto         string    `gorm:"type:text;column:profile_photo" json:"profile_photo"`
	OrganizationID       uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
