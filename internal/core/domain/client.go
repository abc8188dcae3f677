package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subscription states. A client is never hard deleted; cancelled is terminal.
const (
	SubscriptionTrialing  = "trialing"
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionCancelled = "cancelled"
)

// Branding holds the white-label attributes shown on a client's portal.
// Every field is optional; nil renders as JSON null.
type Branding struct {
	LogoURL        *string `json:"logoUrl" gorm:"type:text"`
	PrimaryColor   *string `json:"primaryColor" gorm:"type:varchar(32)"`
	SecondaryColor *string `json:"secondaryColor" gorm:"type:varchar(32)"`
	Slogan         *string `json:"slogan" gorm:"type:varchar(255)"`
	SupportEmail   *string `json:"supportEmail" gorm:"type:varchar(255)"`
	SupportPhone   *string `json:"supportPhone" gorm:"type:varchar(64)"`
	Website        *string `json:"website" gorm:"type:varchar(255)"`
}

// BrandingPatch is a partial branding update. Nil fields are left unchanged,
// a pointer to "" clears the stored value.
type BrandingPatch struct {
	LogoURL        *string
	PrimaryColor   *string
	SecondaryColor *string
	Slogan         *string
	SupportEmail   *string
	SupportPhone   *string
	Website        *string
}

// Columns returns the column updates implied by the patch, keyed by the
// embedded column name.
func (p BrandingPatch) Columns() map[string]any {
	cols := make(map[string]any)
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			cols[col] = nil
			return
		}
		cols[col] = *v
	}
	set("branding_logo_url", p.LogoURL)
	set("branding_primary_color", p.PrimaryColor)
	set("branding_secondary_color", p.SecondaryColor)
	set("branding_slogan", p.Slogan)
	set("branding_support_email", p.SupportEmail)
	set("branding_support_phone", p.SupportPhone)
	set("branding_website", p.Website)
	return cols
}

// Apply merges the patch into b in memory, mirroring Columns.
func (p BrandingPatch) Apply(b *Branding) {
	merge := func(dst **string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			*dst = nil
			return
		}
		s := *v
		*dst = &s
	}
	merge(&b.LogoURL, p.LogoURL)
	merge(&b.PrimaryColor, p.PrimaryColor)
	merge(&b.SecondaryColor, p.SecondaryColor)
	merge(&b.Slogan, p.Slogan)
	merge(&b.SupportEmail, p.SupportEmail)
	merge(&b.SupportPhone, p.SupportPhone)
	merge(&b.Website, p.Website)
}

// Settings holds per-client operational preferences.
type Settings struct {
	Timezone     string            `json:"timezone" gorm:"type:varchar(64);default:'UTC'"`
	Currency     string            `json:"currency" gorm:"type:varchar(8);default:'USD'"`
	CustomFields datatypes.JSONMap `json:"customFields" gorm:"type:jsonb"`
}

// SettingsPatch is a partial settings update. CustomFields are merged key by
// key; a nil value removes the key.
type SettingsPatch struct {
	Timezone     *string
	Currency     *string
	CustomFields map[string]any
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if len(p.CustomFields) == 0 {
		return
	}
	if s.CustomFields == nil {
		s.CustomFields = datatypes.JSONMap{}
	}
	for k, v := range p.CustomFields {
		if v == nil {
			delete(s.CustomFields, k)
			continue
		}
		s.CustomFields[k] = v
	}
}

// Subscription tracks the client's plan and billing state.
type Subscription struct {
	Plan             string     `json:"plan" gorm:"type:varchar(32);default:'starter'"`
	Status           string     `json:"status" gorm:"type:varchar(32);default:'trialing'"`
	TrialEndsAt      *time.Time `json:"trialEndsAt"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
}

// Client is a business account (tenant) owned by exactly one agency.
type Client struct {
	ID           string       `json:"id" gorm:"type:varchar(64);primaryKey"`
	AgencyID     string       `json:"agencyId" gorm:"type:varchar(64);index;not null"`
	CompanyName  string       `json:"companyName" gorm:"type:varchar(255);not null"`
	Slug         string       `json:"slug" gorm:"type:varchar(128);uniqueIndex;not null"`
	BusinessType string       `json:"businessType" gorm:"type:varchar(64)"`
	Branding     Branding     `json:"branding" gorm:"embedded;embeddedPrefix:branding_"`
	Settings     Settings     `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	Subscription Subscription `json:"subscription" gorm:"embedded;embeddedPrefix:subscription_"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
