// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
)

type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleMember UserRole = "member"
)

// User is a console account. The identity is email + password hash; everything
// else (full_name, phone, is_driver, photo URLs) is free-form profile metadata.
type User struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email            string            `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	PasswordHash     string            `gorm:"type:text;not null" json:"-"`
	Role             UserRole          `gorm:"type:text;not null;default:'member'" json:"role"`
	Status           UserStatus        `gorm:"type:text;not null;default:'pending'" json:"status"`
	ConfirmationCode string            `gorm:"type:text" json:"-"`
	OrganizationID   *uuid.UUID        `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}
