// internal/repository/revenue.go
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/model"
)

func NewRevenueRepository(db *gorm.DB) *EntityRepository[model.Revenue] {
	return newEntityRepository(db, "revenues", "date DESC", nil,
		func(r model.Revenue) uuid.UUID { return r.ID },
		true, []string{"date", "amount", "description", "activity_id", "driver_id", "vehicle_id"})
}
