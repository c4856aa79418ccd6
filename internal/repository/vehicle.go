// internal/repository/vehicle.go
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/model"
)

// NewVehicleRepository returns the vehicle store. Vehicles have no natural
// temporal order, so backend insertion order is preserved.
func NewVehicleRepository(db *gorm.DB) *EntityRepository[model.Vehicle] {
	return newEntityRepository(db, "vehicles", "", nil,
		func(v model.Vehicle) uuid.UUID { return v.ID },
		true, []string{"make", "model", "license_plate"})
}
