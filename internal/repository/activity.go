// internal/repository/activity.go
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/model"
)

// NewActivityRepository returns the activity store. Rows are join-expanded
// with their vehicle and driver for display labels and ordered newest first.
func NewActivityRepository(db *gorm.DB) *EntityRepository[model.Activity] {
	return newEntityRepository(db, "activities", "date DESC", []string{"Vehicle", "Driver"},
		func(a model.Activity) uuid.UUID { return a.ID },
		true, []string{"date", "description", "activity_type", "vehicle_id", "driver_id", "status"})
}
