package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform roles. The same set is used for the per-client role on ClientAccess.
const (
	RoleSuperAdmin  = "super_admin"
	RoleAgencyAdmin = "agency_admin"
	RoleClientAdmin = "client_admin"
	RoleTechnician  = "technician"
	RoleViewer      = "viewer"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAgencyAdmin, RoleClientAdmin, RoleTechnician, RoleViewer:
		return true
	}
	return false
}

// User models an authenticated actor. Email is the login key.
type User struct {
	ID           string         `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255)"`
	Role         string         `json:"role" gorm:"type:varchar(32);not null;default:'viewer'"`
	AgencyID     *string        `json:"agencyId,omitempty" gorm:"type:varchar(64);index"`
	Agency       *Agency        `json:"-" gorm:"foreignKey:AgencyID"`
	Accesses     []ClientAccess `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ClientAccess grants a user a role on one client. A (user, client) pair is unique.
type ClientAccess struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:varchar(64);not null;uniqueIndex:idx_client_access_user_client"`
	ClientID  string    `json:"clientId" gorm:"type:varchar(64);not null;uniqueIndex:idx_client_access_user_client"`
	Role      string    `json:"role" gorm:"type:varchar(32);not null"`
	Client    Client    `json:"-" gorm:"foreignKey:ClientID"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *ClientAccess) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
