package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeploymentTemplate is a reusable onboarding preset an agency applies to a
// new client. It carries no behaviour.
type DeploymentTemplate struct {
	ID             string         `json:"id" gorm:"type:varchar(64);primaryKey"`
	AgencyID       string         `json:"agencyId" gorm:"type:varchar(64);index;not null"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Description    string         `json:"description" gorm:"type:text"`
	BusinessType   string         `json:"businessType" gorm:"type:varchar(64)"`
	Branding       Branding       `json:"branding" gorm:"embedded;embeddedPrefix:branding_"`
	Settings       Settings       `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	Stages         datatypes.JSON `json:"stages" gorm:"type:jsonb"`
	EmailTemplates datatypes.JSON `json:"emailTemplates" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (t *DeploymentTemplate) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
