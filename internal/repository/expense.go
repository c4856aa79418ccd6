// internal/repository/expense.go
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/model"
)

func NewExpenseRepository(db *gorm.DB) *EntityRepository[model.Expense] {
	return newEntityRepository(db, "expenses", "date DESC", nil,
		func(e model.Expense) uuid.UUID { return e.ID },
		true, []string{"date", "amount", "description", "status", "activity_id", "driver_id", "vehicle_id"})
}
