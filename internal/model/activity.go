// internal/model/activity.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityStatus string

const (
	ActivityPending   ActivityStatus = "Pending"
	ActivityCompleted ActivityStatus = "Completed"
	ActivityPastDue   ActivityStatus = "Past due"
)

// Activity is a scheduled or completed piece of fleet work. Vehicle and
// driver are optional; list rows carry display labels resolved from the
// joined records, or "N/A" when the relation is absent.
type Activity struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date           time.Time      `gorm:"type:date;not null" json:"date" validate:"required"`
	Description    string         `gorm:"type:text" json:"description"`
	ActivityType   string         `gorm:"type:text" json:"activity_type"`
	VehicleID      *uuid.UUID     `gorm:"type:uuid" json:"vehicle_id,omitempty"`
	DriverID       *uuid.UUID     `gorm:"type:uuid" json:"driver_id,omitempty"`
	Status         ActivityStatus `gorm:"type:text;not null;default:'Pending'" json:"status" validate:"required,oneof=Pending Completed 'Past due'"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
	Driver  *Driver  `gorm:"foreignKey:DriverID" json:"-"`

	VehicleName string `gorm:"-" json:"vehicle_name"`
	DriverName  string `gorm:"-" json:"driver_name"`
}

// BeforeCreate hook for Activity
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	switch a.Status {
	case ActivityPending, ActivityCompleted, ActivityPastDue:
		return nil
	}
	return fmt.Errorf("invalid activity status: %s", a.Status)
}

// AfterFind resolves display labels for the joined vehicle and driver.
// A missing relation renders as "N/A" rather than failing the fetch.
func (a *Activity) AfterFind(tx *gorm.DB) error {
	a.VehicleName = "N/A"
	if a.Vehicle != nil {
		a.VehicleName = a.Vehicle.Label()
	}

	a.DriverName = "N/A"
	if a.Driver != nil {
		a.DriverName = a.Driver.FullName
	}
	return nil
}
