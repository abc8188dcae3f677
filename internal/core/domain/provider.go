package domain

// Provider names a third-party service a client can connect.
type Provider string

const (
	ProviderPipedrive  Provider = "pipedrive"
	ProviderTwilio     Provider = "twilio"
	ProviderReachInbox Provider = "reachinbox"
	ProviderQuickBooks Provider = "quickbooks"
)

// ProviderSpec describes what a provider needs to count as connected.
// KeyField is the credential returned by the API-key cache.
type ProviderSpec struct {
	Name           Provider
	RequiredFields []string
	KeyField       string
}

// Providers is the single source of truth for connection requirements.
var Providers = []ProviderSpec{
	{
		Name:           ProviderPipedrive,
		RequiredFields: []string{FieldPipedriveAPIKey, FieldPipedriveDomain},
		KeyField:       FieldPipedriveAPIKey,
	},
	{
		Name:           ProviderTwilio,
		RequiredFields: []string{FieldTwilioAccountSID, FieldTwilioAuthToken},
		KeyField:       FieldTwilioAuthToken,
	},
	{
		Name:           ProviderReachInbox,
		RequiredFields: []string{FieldReachInboxAPIKey},
		KeyField:       FieldReachInboxAPIKey,
	},
	{
		Name:           ProviderQuickBooks,
		RequiredFields: []string{FieldQuickBooksAccessToken, FieldQuickBooksRealmID},
		KeyField:       FieldQuickBooksAccessToken,
	},
}

// LookupProvider returns the table entry for name.
func LookupProvider(name Provider) (ProviderSpec, bool) {
	for _, p := range Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderSpec{}, false
}

// MissingFields returns the required fields of p that are absent or empty.
func (p ProviderSpec) MissingFields(creds map[string]string) []string {
	var missing []string
	for _, f := range p.RequiredFields {
		if creds[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Connected reports whether every required field of p is present.
func (p ProviderSpec) Connected(creds map[string]string) bool {
	return len(p.MissingFields(creds)) == 0
}

// ComputeIntegrationStatus reports, for every known provider, whether creds
// satisfy its required fields. It has no side effects.
func ComputeIntegrationStatus(creds map[string]string) map[Provider]bool {
	status := make(map[Provider]bool, len(Providers))
	for _, p := range Providers {
		status[p.Name] = p.Connected(creds)
	}
	return status
}
