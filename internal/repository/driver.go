// internal/repository/driver.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/domain"
	"github.com/jerent/carfleet/internal/model"
)

// driverPhotoColumns is the closed set of document-slot columns a photo
// upload may patch.
var driverPhotoColumns = map[string]bool{
	model.SlotDriversLicense:  true,
	model.SlotPoliceRecords:   true,
	model.SlotCriminalRecords: true,
	model.SlotProfilePhoto:    true,
}

type DriverRepository struct {
	*EntityRepository[model.Driver]
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{
		EntityRepository: newEntityRepository(db, "drivers", "", nil,
			func(d model.Driver) uuid.UUID { return d.ID },
			true, []string{"full_name", "address", "phone", "email"}),
		db: db,
	}
}

// PatchPhotoURL writes a single document-slot URL onto the driver record.
// Each slot is patched on its own so one slot's failure never touches the
// others. The write carries the organization filter so a driver outside the
// caller's organization reads as not found.
func (r *DriverRepository) PatchPhotoURL(ctx context.Context, orgID, id uuid.UUID, column, url string) error {
	if !driverPhotoColumns[column] {
		return fmt.Errorf("patching driver photo: %w: unknown slot %q", domain.ErrInvalidInput, column)
	}

	res := r.db.WithContext(ctx).Model(&model.Driver{}).
		Where("id = ? AND organization_id = ?", id, orgID).Update(column, url)
	if res.Error != nil {
		return fmt.Errorf("patching driver photo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("patching driver photo: %w", domain.ErrNotFound)
	}
	return nil
}
