// internal/repository/invitation.go
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jerent/carfleet/internal/model"
)

// NewInvitationRepository returns the invitation store. Token uniqueness is
// enforced by the backend; a collision surfaces as a duplicate error.
func NewInvitationRepository(db *gorm.DB) *EntityRepository[model.Invitation] {
	return newEntityRepository(db, "invitations", "", nil,
		func(i model.Invitation) uuid.UUID { return i.ID },
		false, []string{"email"})
}
