package model_test

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/model"
)

func TestActivityBeforeCreate(t *testing.T) {
	t.Run("assigns id and accepts known statuses", func(t *testing.T) {
		for _, status := range []model.ActivityStatus{
			model.ActivityPending, model.ActivityCompleted, model.ActivityPastDue,
		} {
			a := model.Activity{Date: time.Now(), Status: status}
			require.NoError(t, a.BeforeCreate(nil))
			assert.NotEqual(t, uuid.Nil, a.ID)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		a := model.Activity{Date: time.Now(), Status: "Done"}
		assert.Error(t, a.BeforeCreate(nil))
	})
}

func TestActivityAfterFind(t *testing.T) {
	t.Run("missing relations render as N/A", func(t *testing.T) {
		a := model.Activity{}
		require.NoError(t, a.AfterFind(nil))
		assert.Equal(t, "N/A", a.VehicleName)
		assert.Equal(t, "N/A", a.DriverName)
	})

	t.Run("joined relations render display labels", func(t *testing.T) {
		a := model.Activity{
			Vehicle: &model.Vehicle{Make: "Toyota", Model: "Hilux", LicensePlate: "ABC-123"},
			Driver:  &model.Driver{FullName: "Jane Roe"},
		}
		require.NoError(t, a.AfterFind(nil))
		assert.Equal(t, "Toyota Hilux (ABC-123)", a.VehicleName)
		assert.Equal(t, "Jane Roe", a.DriverName)
	})
}

func TestExpenseBeforeCreate(t *testing.T) {
	t.Run("accepts known statuses", func(t *testing.T) {
		for _, status := range []model.ExpenseStatus{
			model.ExpensePaid, model.ExpensePastDue, model.ExpenseIncomplete, model.ExpenseCanceled,
		} {
			e := model.Expense{Date: time.Now(), Amount: 150.00, Status: status}
			require.NoError(t, e.BeforeCreate(nil))
			assert.NotEqual(t, uuid.Nil, e.ID)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		e := model.Expense{Date: time.Now(), Amount: 150.00, Status: "unpaid"}
		assert.Error(t, e.BeforeCreate(nil))
	})
}

// Status sets are enforced by validation as well as the create hooks, so an
// edit carrying an out-of-set value is rejected the same way a create is.
func TestStatusValidationTags(t *testing.T) {
	validate := validator.New()

	t.Run("activity accepts only its status set", func(t *testing.T) {
		for _, status := range []model.ActivityStatus{
			model.ActivityPending, model.ActivityCompleted, model.ActivityPastDue,
		} {
			a := model.Activity{Date: time.Now(), Status: status}
			assert.NoError(t, validate.Struct(a), string(status))
		}

		a := model.Activity{Date: time.Now(), Status: "anything"}
		assert.Error(t, validate.Struct(a))
	})

	t.Run("expense accepts only its status set", func(t *testing.T) {
		for _, status := range []model.ExpenseStatus{
			model.ExpensePaid, model.ExpensePastDue, model.ExpenseIncomplete, model.ExpenseCanceled,
		} {
			e := model.Expense{Date: time.Now(), Amount: 150.00, Status: status}
			assert.NoError(t, validate.Struct(e), string(status))
		}

		e := model.Expense{Date: time.Now(), Amount: 150.00, Status: "unpaid"}
		assert.Error(t, validate.Struct(e))
	})
}

func TestVehicleLabel(t *testing.T) {
	v := model.Vehicle{Make: "Toyota", Model: "Hilux", LicensePlate: "ABC-123"}
	assert.Equal(t, "Toyota Hilux (ABC-123)", v.Label())
}
