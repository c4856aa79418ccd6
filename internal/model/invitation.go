// internal/model/invitation.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation carries a one-shot signup token issued for an email address.
// Tokens are generated by the caller and must be globally unique.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Token     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"token"`
	Email     string    `gorm:"type:text;not null" json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
