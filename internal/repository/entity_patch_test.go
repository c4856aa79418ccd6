package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jerent/carfleet/internal/domain"
	"github.com/jerent/carfleet/internal/model"
)

func TestEntityRepositoryCheckPatch(t *testing.T) {
	repo := newEntityRepository(nil, "expenses", "date DESC", nil,
		func(e model.Expense) uuid.UUID { return e.ID },
		true, []string{"date", "amount", "description", "status"})

	t.Run("whitelisted columns pass", func(t *testing.T) {
		assert.NoError(t, repo.checkPatch(map[string]any{
			"amount": 150.00,
			"status": "paid",
		}))
	})

	t.Run("tenant column is not editable", func(t *testing.T) {
		err := repo.checkPatch(map[string]any{"organization_id": uuid.New().String()})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bookkeeping columns are not editable", func(t *testing.T) {
		for _, col := range []string{"id", "created_at", "updated_at"} {
			err := repo.checkPatch(map[string]any{col: "2020-01-01"})
			assert.ErrorIs(t, err, domain.ErrInvalidInput, col)
		}
	})

	t.Run("one bad column fails the whole patch", func(t *testing.T) {
		err := repo.checkPatch(map[string]any{
			"amount":          150.00,
			"organization_id": uuid.New().String(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
