// internal/model/revenue.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Revenue struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date           time.Time  `gorm:"type:date;not null" json:"date" validate:"required"`
	Amount         float64    `gorm:"type:numeric;not null" json:"amount" validate:"required"`
	Description    string     `gorm:"type:text" json:"description"`
	ActivityID     *uuid.UUID `gorm:"type:uuid" json:"activity_id,omitempty"`
	DriverID       *uuid.UUID `gorm:"type:uuid" json:"driver_id,omitempty"`
	VehicleID      *uuid.UUID `gorm:"type:uuid" json:"vehicle_id,omitempty"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *Revenue) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
