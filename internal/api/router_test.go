package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskifye/integration-hub/internal/api/handler"
	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/internal/core/service"
)

const testSecret = "router-secret"

type fakeAccess struct {
	ports.AccessService
	grants map[string]bool // email/clientID
}

func (f *fakeAccess) HasAccess(_ context.Context, email, clientID string) (bool, error) {
	return f.grants[email+"/"+clientID], nil
}

type fakeClients struct {
	ports.ClientService
	seen []string
}

func (f *fakeClients) GetBranding(_ context.Context, clientID string) (*ports.BrandingView, error) {
	f.seen = append(f.seen, clientID)
	if clientID == "missing" {
		return nil, domain.ErrClientNotFound
	}
	return &ports.BrandingView{CompanyName: "Acme"}, nil
}

type fakeIntegrations struct {
	ports.IntegrationService
}

func (fakeIntegrations) Status(context.Context, string) (map[domain.Provider]bool, error) {
	return domain.ComputeIntegrationStatus(nil), nil
}

type fakeSms struct {
	ports.SmsService
	seen []string
}

func (f *fakeSms) List(_ context.Context, in ports.ListSmsInput) (*ports.ListSmsResult, error) {
	f.seen = append(f.seen, in.ClientID)
	return &ports.ListSmsResult{
		Messages:   []domain.SmsMessage{},
		Pagination: ports.Pagination{Page: 1, Limit: 20},
		Stats:      map[string]int64{},
	}, nil
}

func newTestRouter(t *testing.T, authRequired bool, clients *fakeClients) *echo.Echo {
	t.Helper()
	return newTestRouterWithSms(t, authRequired, clients, &fakeSms{})
}

func newTestRouterWithSms(t *testing.T, authRequired bool, clients *fakeClients, sms *fakeSms) *echo.Echo {
	t.Helper()
	return NewRouter(Deps{
		Log:          zerolog.Nop(),
		Sms:          sms,
		Clients:      clients,
		Integrations: fakeIntegrations{},
		Access: &fakeAccess{grants: map[string]bool{
			"tech@acme.test/client-1": true,
		}},
		Health: map[string]handler.Pinger{
			"postgres": handler.PingFunc(func(context.Context) error { return nil }),
		},
		Registerer:       prometheus.NewRegistry(),
		JWTSecret:        testSecret,
		AuthRequired:     authRequired,
		DefaultClientID:  "client-1",
		DefaultUserEmail: "admin@taskifye.local",
	})
}

func bearer(t *testing.T, email, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-" + email,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, false, &fakeClients{})

	rec := serve(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body(t, rec)["status"])
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t, false, &fakeClients{})

	rec := serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	r := newTestRouter(t, false, &fakeClients{})

	rec := serve(r, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestRouter_DevModeUsesDefaults(t *testing.T) {
	clients := &fakeClients{}
	r := newTestRouter(t, false, clients)

	rec := serve(r, http.MethodGet, "/api/branding", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"client-1"}, clients.seen)

	rec = serve(r, http.MethodGet, "/api/branding", map[string]string{"x-client-id": "client-9"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-9", clients.seen[1])
}

func TestRouter_TenantIsolation(t *testing.T) {
	clients := &fakeClients{}
	r := newTestRouter(t, true, clients)

	tests := []struct {
		name    string
		headers map[string]string
		code    int
	}{
		{"no token", map[string]string{}, http.StatusUnauthorized},
		{"own client", map[string]string{"Authorization": bearer(t, "tech@acme.test", domain.RoleTechnician), "x-client-id": "client-1"}, http.StatusOK},
		{"foreign client", map[string]string{"Authorization": bearer(t, "tech@acme.test", domain.RoleTechnician), "x-client-id": "client-2"}, http.StatusForbidden},
		{"super admin", map[string]string{"Authorization": bearer(t, "root@taskifye.local", domain.RoleSuperAdmin), "x-client-id": "client-2"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, http.MethodGet, "/api/branding", tt.headers)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				assert.Equal(t, false, body(t, rec)["success"])
			}
		})
	}
}

func TestRouter_BrandingUnknownClientIsGeneric(t *testing.T) {
	clients := &fakeClients{}
	r := newTestRouter(t, false, clients)

	rec := serve(r, http.MethodGet, "/api/branding", map[string]string{"x-client-id": "missing"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, "Failed to fetch branding", resp["error"])
	assert.Equal(t, []string{"missing"}, clients.seen)
}

func TestRouter_SmsRequiresClientHeader(t *testing.T) {
	sms := &fakeSms{}
	r := newTestRouterWithSms(t, false, &fakeClients{}, sms)

	rec := serve(r, http.MethodGet, "/api/sms?page=1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	resp := body(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Client ID is required", resp["error"])
	assert.Empty(t, sms.seen, "no tenant may be defaulted for SMS history")

	rec = serve(r, http.MethodPost, "/api/sms", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodGet, "/api/sms?page=1", map[string]string{"x-client-id": "client-9"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"client-9"}, sms.seen)
}

type memUsers struct {
	ports.UserRepository
	byEmail map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	m.byEmail[u.Email] = u
	return u, nil
}

func TestRouter_RegisterCannotSelfElevate(t *testing.T) {
	users := &memUsers{byEmail: map[string]*domain.User{}}
	r := NewRouter(Deps{
		Log:        zerolog.Nop(),
		Auth:       service.NewAuthService(users, testSecret, time.Hour),
		Registerer: prometheus.NewRegistry(),
		JWTSecret:  testSecret,
	})

	register := func(payload, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := register(`{"name":"Mallory","email":"mallory@evil.test","password":"longenough","role":"super_admin","agencyId":"agency-1"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.Empty(t, users.byEmail)

	rec = register(`{"name":"Val","email":"val@acme.test","password":"longenough"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.RoleViewer, users.byEmail["val@acme.test"].Role)

	rec = register(`{"name":"Ops","email":"ops@acme.test","password":"longenough","role":"agency_admin","agencyId":"agency-1"}`,
		bearer(t, "root@taskifye.local", domain.RoleSuperAdmin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.RoleAgencyAdmin, users.byEmail["ops@acme.test"].Role)

	rec = register(`{"name":"Val2","email":"val2@acme.test","password":"longenough"}`, "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DebugRequiresAdminWhenAuthRequired(t *testing.T) {
	r := newTestRouter(t, true, &fakeClients{})

	rec := serve(r, http.MethodGet, "/api/debug/integrations", map[string]string{
		"Authorization": bearer(t, "tech@acme.test", domain.RoleTechnician),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_IntegrationStatus(t *testing.T) {
	r := newTestRouter(t, false, &fakeClients{})

	rec := serve(r, http.MethodGet, "/api/settings/integrations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, "client-1", resp["clientId"])
	assert.Len(t, resp["integrations"], 4)
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		err    error
		code   int
		msg    string
	}{
		{"http error", http.MethodGet, echo.NewHTTPError(http.StatusForbidden, "access to client denied"), http.StatusForbidden, "access to client denied"},
		{"wrapped domain error", http.MethodGet, fmt.Errorf("load: %w", domain.ErrClientNotFound), http.StatusNotFound, "Client not found"},
		{"validation", http.MethodGet, domain.Invalid("direction must be one of: inbound, outbound"), http.StatusBadRequest, "direction must be one of: inbound, outbound"},
		{"unknown", http.MethodGet, errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
		{"head", http.MethodHead, domain.ErrForbidden, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/x", nil), rec)

			NewHTTPErrorHandler()(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			if tt.msg == "" {
				assert.Empty(t, rec.Body.String())
				return
			}
			resp := body(t, rec)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.msg, resp["error"])
		})
	}
}
