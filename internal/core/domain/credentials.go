package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Credential field names. They double as the keys of a Credentials map and
// the JSON keys accepted by the credential update endpoint.
const (
	FieldPipedriveAPIKey        = "pipedrive_api_key"
	FieldPipedriveDomain        = "pipedrive_domain"
	FieldTwilioAccountSID       = "twilio_account_sid"
	FieldTwilioAuthToken        = "twilio_auth_token"
	FieldTwilioPhoneNumber      = "twilio_phone_number"
	FieldReachInboxAPIKey       = "reachinbox_api_key"
	FieldQuickBooksClientSecret = "quickbooks_client_secret"
	FieldQuickBooksAccessToken  = "quickbooks_access_token"
	FieldQuickBooksRefreshToken = "quickbooks_refresh_token"
	FieldQuickBooksRealmID      = "quickbooks_realm_id"
)

// Credentials is the flat field → value view of a client's stored provider
// secrets. A missing or empty value means "not configured".
type Credentials map[string]string

// Has reports whether field is present and non-empty.
func (c Credentials) Has(field string) bool {
	return c[field] != ""
}

// APISettings is the one-per-client credential record.
type APISettings struct {
	ClientID                 string `gorm:"type:varchar(64);primaryKey"`
	PipedriveAPIKey          string `gorm:"type:text"`
	PipedriveDomain          string `gorm:"type:varchar(255)"`
	TwilioAccountSID         string `gorm:"type:varchar(64)"`
	TwilioAuthToken          string `gorm:"type:text"`
	TwilioPhoneNumber        string `gorm:"type:varchar(32)"`
	ReachInboxAPIKey         string `gorm:"type:text"`
	QuickBooksClientSecret   string `gorm:"type:text"`
	QuickBooksAccessToken    string `gorm:"type:text"`
	QuickBooksRefreshToken   string `gorm:"type:text"`
	QuickBooksRealmID        string `gorm:"type:varchar(64)"`
	QuickBooksTokenExpiresAt *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// TableName keeps the historical table name.
func (APISettings) TableName() string {
	return "api_settings"
}

func (s *APISettings) fields() map[string]*string {
	return map[string]*string{
		FieldPipedriveAPIKey:        &s.PipedriveAPIKey,
		FieldPipedriveDomain:        &s.PipedriveDomain,
		FieldTwilioAccountSID:       &s.TwilioAccountSID,
		FieldTwilioAuthToken:        &s.TwilioAuthToken,
		FieldTwilioPhoneNumber:      &s.TwilioPhoneNumber,
		FieldReachInboxAPIKey:       &s.ReachInboxAPIKey,
		FieldQuickBooksClientSecret: &s.QuickBooksClientSecret,
		FieldQuickBooksAccessToken:  &s.QuickBooksAccessToken,
		FieldQuickBooksRefreshToken: &s.QuickBooksRefreshToken,
		FieldQuickBooksRealmID:      &s.QuickBooksRealmID,
	}
}

// Credentials flattens the record, omitting empty fields.
func (s *APISettings) Credentials() Credentials {
	out := make(Credentials)
	for name, v := range s.fields() {
		if *v != "" {
			out[name] = *v
		}
	}
	return out
}

// Apply writes every non-nil patch value onto the record. Unknown field names
// are rejected before anything is modified.
func (s *APISettings) Apply(patch map[string]*string) error {
	fields := s.fields()
	var unknown []string
	for name := range patch {
		if _, ok := fields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Invalid(fmt.Sprintf("unknown credential fields: %s", strings.Join(unknown, ", ")))
	}
	for name, v := range patch {
		if v != nil {
			*fields[name] = *v
		}
	}
	return nil
}

// CredentialFields lists every known credential field name in stable order.
func CredentialFields() []string {
	names := make([]string, 0, 10)
	for name := range (&APISettings{}).fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OAuthTokens is the result of a successful authorization-code exchange.
type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}
