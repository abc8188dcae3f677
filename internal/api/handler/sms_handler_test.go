package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

type stubSmsService struct {
	listIn    ports.ListSmsInput
	result    *ports.ListSmsResult
	sendIn    ports.SendSmsInput
	sent      *domain.SmsMessage
	inboundIn ports.InboundSmsInput
	err       error
}

func (s *stubSmsService) List(_ context.Context, in ports.ListSmsInput) (*ports.ListSmsResult, error) {
	s.listIn = in
	return s.result, s.err
}

func (s *stubSmsService) Send(_ context.Context, in ports.SendSmsInput) (*domain.SmsMessage, error) {
	s.sendIn = in
	return s.sent, s.err
}

func (s *stubSmsService) ReceiveInbound(_ context.Context, in ports.InboundSmsInput) (*domain.SmsMessage, error) {
	s.inboundIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SmsMessage{ID: "m-in", Direction: domain.DirectionInbound, Status: domain.SmsStatusReceived}, nil
}

func TestSmsHandler_List(t *testing.T) {
	svc := &stubSmsService{result: &ports.ListSmsResult{
		Messages:   []domain.SmsMessage{{ID: "m1", ClientID: "client-1", Direction: domain.DirectionOutbound, Status: "delivered"}},
		Pagination: ports.Pagination{Page: 2, Limit: 10, Total: 45, TotalPages: 5},
		Stats:      map[string]int64{"delivered": 40, "failed": 5},
	}}
	h := NewSmsHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/api/sms?page=2&limit=10&direction=outbound&jobId=job-7", "")
	asTenant(c, "admin@taskifye.local", "client-1")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)

	want := ports.ListSmsInput{ClientID: "client-1", Page: 2, Limit: 10, Direction: "outbound", JobID: "job-7"}
	if svc.listIn != want {
		t.Fatalf("service input = %+v, want %+v", svc.listIn, want)
	}

	resp := decodeBody(t, rec)
	p := resp["pagination"].(map[string]any)
	if p["page"] != float64(2) || p["limit"] != float64(10) || p["total"] != float64(45) || p["totalPages"] != float64(5) {
		t.Fatalf("unexpected pagination: %v", p)
	}
	stats := resp["stats"].(map[string]any)
	if stats["delivered"] != float64(40) {
		t.Fatalf("unexpected stats: %v", stats)
	}
	msgs := resp["messages"].([]any)
	if len(msgs) != 1 || msgs[0].(map[string]any)["clientId"] != "client-1" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestSmsHandler_List_RequiresClient(t *testing.T) {
	h := NewSmsHandler(&stubSmsService{})

	c, _ := newJSONContext(http.MethodGet, "/api/sms", "")
	asTenant(c, "admin@taskifye.local", "")

	he := requireHTTPError(t, h.List(c), http.StatusBadRequest)
	if he.Message != "Client ID is required" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestSmsHandler_List_BadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
		msg   string
	}{
		{"non numeric page", "page=abc", nil, "page and limit must be integers"},
		{"bad direction", "direction=sideways", domain.Invalid("direction must be one of: inbound, outbound"), "direction must be one of: inbound, outbound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSmsHandler(&stubSmsService{err: tt.err})

			c, rec := newJSONContext(http.MethodGet, "/api/sms?"+tt.query, "")
			asTenant(c, "admin@taskifye.local", "client-1")
			_ = h.List(c)

			requireStatus(t, rec, http.StatusBadRequest)
			if resp := decodeBody(t, rec); resp["error"] != tt.msg {
				t.Fatalf("unexpected body: %v", resp)
			}
		})
	}
}

func TestSmsHandler_Send(t *testing.T) {
	svc := &stubSmsService{sent: &domain.SmsMessage{ID: "m1", Direction: domain.DirectionOutbound, Status: "queued"}}
	h := NewSmsHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/sms", `{"to":"+15559990000","body":"On our way","jobId":"job-1"}`)
	asTenant(c, "admin@taskifye.local", "client-1")

	if err := h.Send(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusCreated)
	if svc.sendIn.ClientID != "client-1" || svc.sendIn.JobID != "job-1" {
		t.Fatalf("unexpected input: %+v", svc.sendIn)
	}
}

func TestSmsHandler_Send_Failures(t *testing.T) {
	failed := &domain.SmsMessage{ID: "m2", Direction: domain.DirectionOutbound, Status: domain.SmsStatusFailed, Error: "invalid number"}

	tests := []struct {
		name string
		body string
		sent *domain.SmsMessage
		err  error
		code int
	}{
		{"not e164", `{"to":"555-1234","body":"hi"}`, nil, nil, http.StatusBadRequest},
		{"missing body", `{"to":"+15559990000"}`, nil, nil, http.StatusBadRequest},
		{"not connected", `{"to":"+15559990000","body":"hi"}`, nil, domain.ErrProviderNotConnected, http.StatusUnprocessableEntity},
		{"provider rejected", `{"to":"+15559990000","body":"hi"}`, failed, errors.Join(domain.ErrUpstream), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSmsHandler(&stubSmsService{sent: tt.sent, err: tt.err})

			c, rec := newJSONContext(http.MethodPost, "/api/sms", tt.body)
			asTenant(c, "admin@taskifye.local", "client-1")
			_ = h.Send(c)

			requireStatus(t, rec, tt.code)
			resp := decodeBody(t, rec)
			if resp["success"] != false {
				t.Fatalf("unexpected body: %v", resp)
			}
			if tt.sent != nil && resp["message"].(map[string]any)["status"] != domain.SmsStatusFailed {
				t.Fatalf("failed message must be returned: %v", resp)
			}
		})
	}
}

func newWebhookContext(target string, form url.Values, signature string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Host = "hub.example.com"
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("X-Twilio-Signature", signature)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSmsHandler_Webhook(t *testing.T) {
	svc := &stubSmsService{}
	h := NewSmsHandler(svc)

	form := url.Values{"From": {"+15551234567"}, "To": {"+15550001111"}, "Body": {"Running late?"}, "MessageSid": {"SM9"}}
	c, rec := newWebhookContext("/api/sms/webhook?clientId=client-1", form, "sig")

	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "<Response></Response>") {
		t.Fatalf("expected empty TwiML, got %q", rec.Body.String())
	}

	in := svc.inboundIn
	if in.ClientID != "client-1" || in.Signature != "sig" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.URL != "http://hub.example.com/api/sms/webhook?clientId=client-1" {
		t.Fatalf("unexpected signed url %q", in.URL)
	}
	if len(in.Params) != 4 || in.Params["Body"] != "Running late?" {
		t.Fatalf("query parameters must not be signed as form fields: %v", in.Params)
	}
}

func TestSmsHandler_Webhook_BadSignature(t *testing.T) {
	h := NewSmsHandler(&stubSmsService{err: domain.ErrInvalidSignature})

	c, rec := newWebhookContext("/api/sms/webhook?clientId=client-1", url.Values{"Body": {"hi"}}, "forged")
	_ = h.Webhook(c)

	requireStatus(t, rec, http.StatusForbidden)
}
