// internal/model/organization.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary. Every business record references
// exactly one organization and list queries are scoped by it.
type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
