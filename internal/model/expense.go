// internal/model/expense.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseStatus string

const (
	ExpensePaid       ExpenseStatus = "paid"
	ExpensePastDue    ExpenseStatus = "pastdue"
	ExpenseIncomplete ExpenseStatus = "incomplete"
	ExpenseCanceled   ExpenseStatus = "canceled"
)

type Expense struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date           time.Time     `gorm:"type:date;not null" json:"date" validate:"required"`
	Amount         float64       `gorm:"type:numeric;not null" json:"amount" validate:"required"`
	Description    string        `gorm:"type:text" json:"description"`
	Status         ExpenseStatus `gorm:"type:text;not null;default:'paid'" json:"status" validate:"required,oneof=paid pastdue incomplete canceled"`
	ActivityID     *uuid.UUID    `gorm:"type:uuid" json:"activity_id,omitempty"`
	DriverID       *uuid.UUID    `gorm:"type:uuid" json:"driver_id,omitempty"`
	VehicleID      *uuid.UUID    `gorm:"type:uuid" json:"vehicle_id,omitempty"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BeforeCreate hook for Expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	switch e.Status {
	case ExpensePaid, ExpensePastDue, ExpenseIncomplete, ExpenseCanceled:
		return nil
	}
	return fmt.Errorf("invalid expense status: %s", e.Status)
}
