// internal/model/vehicle.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Make           string    `gorm:"type:text;not null" json:"make" validate:"required"`
	Model          string    `gorm:"type:text;not null" json:"model" validate:"required"`
	LicensePlate   string    `gorm:"type:text;not null;uniqueIndex:idx_vehicles_org_plate" json:"license_plate" validate:"required"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vehicles_org_plate" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Label is the display form used wherever a vehicle is joined for rendering.
func (v Vehicle) Label() string {
	return v.Make + " " + v.Model + " (" + v.LicensePlate + ")"
}
