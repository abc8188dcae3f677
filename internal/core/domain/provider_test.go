package domain

import (
	"reflect"
	"testing"
)

func TestComputeIntegrationStatus(t *testing.T) {
	tests := []struct {
		name  string
		creds map[string]string
		want  map[Provider]bool
	}{
		{
			name:  "pipedrive complete",
			creds: map[string]string{FieldPipedriveAPIKey: "x", FieldPipedriveDomain: "y"},
			want:  map[Provider]bool{ProviderPipedrive: true, ProviderTwilio: false, ProviderReachInbox: false, ProviderQuickBooks: false},
		},
		{
			name:  "pipedrive missing domain",
			creds: map[string]string{FieldPipedriveAPIKey: "x"},
			want:  map[Provider]bool{ProviderPipedrive: false, ProviderTwilio: false, ProviderReachInbox: false, ProviderQuickBooks: false},
		},
		{
			name:  "empty",
			creds: map[string]string{},
			want:  map[Provider]bool{ProviderPipedrive: false, ProviderTwilio: false, ProviderReachInbox: false, ProviderQuickBooks: false},
		},
		{
			name:  "nil map",
			creds: nil,
			want:  map[Provider]bool{ProviderPipedrive: false, ProviderTwilio: false, ProviderReachInbox: false, ProviderQuickBooks: false},
		},
		{
			name: "empty string counts as missing",
			creds: map[string]string{
				FieldTwilioAccountSID: "AC1", FieldTwilioAuthToken: "",
				FieldReachInboxAPIKey:      "r",
				FieldQuickBooksAccessToken: "a", FieldQuickBooksRealmID: "realm",
			},
			want: map[Provider]bool{ProviderPipedrive: false, ProviderTwilio: false, ProviderReachInbox: true, ProviderQuickBooks: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeIntegrationStatus(tt.creds)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeIntegrationStatus_DoesNotMutateInput(t *testing.T) {
	creds := map[string]string{FieldPipedriveAPIKey: "x"}
	_ = ComputeIntegrationStatus(creds)
	if len(creds) != 1 || creds[FieldPipedriveAPIKey] != "x" {
		t.Fatalf("input mutated: %v", creds)
	}
}

func TestProviderSpec_MissingFields(t *testing.T) {
	spec, ok := LookupProvider(ProviderTwilio)
	if !ok {
		t.Fatal("twilio not registered")
	}
	got := spec.MissingFields(map[string]string{FieldTwilioAccountSID: "AC1"})
	if !reflect.DeepEqual(got, []string{FieldTwilioAuthToken}) {
		t.Fatalf("unexpected missing fields: %v", got)
	}
	if spec.MissingFields(map[string]string{FieldTwilioAccountSID: "AC1", FieldTwilioAuthToken: "t"}) != nil {
		t.Fatal("expected no missing fields")
	}
}

func TestLookupProvider_Unknown(t *testing.T) {
	if _, ok := LookupProvider("salesforce"); ok {
		t.Fatal("unexpected provider")
	}
}

func TestProviders_KeyFieldIsRequired(t *testing.T) {
	for _, p := range Providers {
		found := false
		for _, f := range p.RequiredFields {
			if f == p.KeyField {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: key field %s is not a required field", p.Name, p.KeyField)
		}
	}
}
