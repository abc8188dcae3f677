package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

type stubIntegrationService struct {
	status      map[domain.Provider]bool
	diagnosis   map[domain.Provider]ports.ProviderStatus
	presence    map[string]bool
	states      map[domain.Provider]ports.CacheState
	patch       map[string]*string
	invalidated []string
	err         error
}

func (s *stubIntegrationService) Status(context.Context, string) (map[domain.Provider]bool, error) {
	return s.status, s.err
}

func (s *stubIntegrationService) Diagnose(context.Context, string) (map[domain.Provider]ports.ProviderStatus, error) {
	return s.diagnosis, s.err
}

func (s *stubIntegrationService) CredentialPresence(context.Context, string) (map[string]bool, error) {
	return s.presence, s.err
}

func (s *stubIntegrationService) CacheStatus(_ context.Context, _ string, provider domain.Provider) (ports.CacheState, error) {
	return s.states[provider], s.err
}

func (s *stubIntegrationService) GetAPIKey(context.Context, string, domain.Provider) (string, bool, error) {
	return "", false, s.err
}

func (s *stubIntegrationService) SaveCredentials(_ context.Context, _ string, patch map[string]*string) (map[domain.Provider]bool, error) {
	s.patch = patch
	return s.status, s.err
}

func (s *stubIntegrationService) InvalidateCredentials(_ context.Context, clientID string) error {
	s.invalidated = append(s.invalidated, clientID)
	return s.err
}

func allDisconnected() map[domain.Provider]bool {
	return map[domain.Provider]bool{
		domain.ProviderPipedrive:  false,
		domain.ProviderTwilio:     false,
		domain.ProviderReachInbox: false,
		domain.ProviderQuickBooks: false,
	}
}

func TestIntegrationHandler_Status(t *testing.T) {
	status := allDisconnected()
	status[domain.ProviderPipedrive] = true
	h := NewIntegrationHandler(&stubIntegrationService{status: status})

	c, rec := newJSONContext(http.MethodGet, "/api/settings/integrations", "")
	asTenant(c, "admin@taskifye.local", "client-1")

	if err := h.Status(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)

	resp := decodeBody(t, rec)
	if resp["clientId"] != "client-1" {
		t.Fatalf("unexpected client: %v", resp)
	}
	integrations := resp["integrations"].(map[string]any)
	if len(integrations) != 4 || integrations["pipedrive"] != true || integrations["twilio"] != false {
		t.Fatalf("unexpected integrations: %v", integrations)
	}
}

func TestIntegrationHandler_CheckIntegrations(t *testing.T) {
	h := NewIntegrationHandler(&stubIntegrationService{diagnosis: map[domain.Provider]ports.ProviderStatus{
		domain.ProviderPipedrive: {Connected: false, MissingFields: []string{domain.FieldPipedriveDomain}},
		domain.ProviderTwilio:    {Connected: true, MissingFields: []string{}},
	}})

	c, rec := newJSONContext(http.MethodGet, "/api/debug/check-integrations", "")
	asTenant(c, "admin@taskifye.local", "client-1")
	_ = h.CheckIntegrations(c)

	requireStatus(t, rec, http.StatusOK)
	integrations := decodeBody(t, rec)["integrations"].(map[string]any)
	pd := integrations["pipedrive"].(map[string]any)
	if pd["connected"] != false || pd["missingFields"].([]any)[0] != domain.FieldPipedriveDomain {
		t.Fatalf("unexpected pipedrive diagnosis: %v", pd)
	}
	tw := integrations["twilio"].(map[string]any)
	if missing, ok := tw["missingFields"].([]any); !ok || len(missing) != 0 {
		t.Fatalf("missingFields must be an empty array: %v", tw)
	}
}

func TestIntegrationHandler_DebugCredentials(t *testing.T) {
	h := NewIntegrationHandler(&stubIntegrationService{
		presence: map[string]bool{domain.FieldPipedriveAPIKey: true, domain.FieldReachInboxAPIKey: false},
		states: map[domain.Provider]ports.CacheState{
			domain.ProviderPipedrive: {Cached: true, Available: true},
		},
	})

	c, rec := newJSONContext(http.MethodGet, "/api/debug/integrations", "")
	asTenant(c, "admin@taskifye.local", "client-1")
	_ = h.DebugCredentials(c)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeBody(t, rec)
	creds := resp["credentials"].(map[string]any)
	if creds[domain.FieldPipedriveAPIKey] != true || creds[domain.FieldReachInboxAPIKey] != false {
		t.Fatalf("unexpected credentials: %v", creds)
	}
	cache := resp["cache"].(map[string]any)
	if len(cache) != 2 {
		t.Fatalf("expected pipedrive and reachinbox, got %v", cache)
	}
	if cache["pipedrive"].(map[string]any)["cached"] != true || cache["reachinbox"].(map[string]any)["available"] != false {
		t.Fatalf("unexpected cache indicators: %v", cache)
	}
}

func TestIntegrationHandler_ClearCache(t *testing.T) {
	svc := &stubIntegrationService{}
	h := NewIntegrationHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/debug/integrations", "")
	asTenant(c, "admin@taskifye.local", "client-1")
	_ = h.ClearCache(c)

	requireStatus(t, rec, http.StatusOK)
	if resp := decodeBody(t, rec); resp["message"] != "API key cache cleared for client client-1" {
		t.Fatalf("unexpected body: %v", resp)
	}
	if len(svc.invalidated) != 1 || svc.invalidated[0] != "client-1" {
		t.Fatalf("unexpected invalidations: %v", svc.invalidated)
	}
}

func TestIntegrationHandler_SaveCredentials(t *testing.T) {
	status := allDisconnected()
	status[domain.ProviderReachInbox] = true
	svc := &stubIntegrationService{status: status}
	h := NewIntegrationHandler(svc)

	c, rec := newJSONContext(http.MethodPut, "/api/settings/integrations", `{"reachinbox_api_key":"rk","pipedrive_domain":null}`)
	asTenant(c, "admin@taskifye.local", "client-1")

	if err := h.SaveCredentials(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)
	if v := svc.patch[domain.FieldReachInboxAPIKey]; v == nil || *v != "rk" {
		t.Fatalf("value not forwarded: %v", svc.patch)
	}
	if v, ok := svc.patch[domain.FieldPipedriveDomain]; !ok || v != nil {
		t.Fatalf("null must be forwarded as nil: %v", svc.patch)
	}
}

func TestIntegrationHandler_SaveCredentials_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"empty", `{}`, nil, http.StatusBadRequest},
		{"unknown field", `{"stripe":"x"}`, domain.Invalid("unknown credential fields: stripe"), http.StatusBadRequest},
		{"store failure", `{"reachinbox_api_key":"rk"}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewIntegrationHandler(&stubIntegrationService{err: tt.err})

			c, rec := newJSONContext(http.MethodPut, "/api/settings/integrations", tt.body)
			asTenant(c, "admin@taskifye.local", "client-1")
			_ = h.SaveCredentials(c)

			requireStatus(t, rec, tt.code)
		})
	}
}
