package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleApplicant UserRole = "applicant"
	RoleRecruiter UserRole = "recruiter"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleApplicant, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// CanRecruit reports whether the role may post jobs and read recruiter dashboards.
func (r UserRole) CanRecruit() bool {
	return r == RoleRecruiter || r == RoleAdmin
}

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:text;not null" json:"-"`
	FullName       string    `gorm:"type:text;not null" json:"full_name"`
	Role           UserRole  `gorm:"type:text;not null" json:"role"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
