package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// ListSmsInput carries the raw list parameters from the transport layer.
type ListSmsInput struct {
	ClientID  string
	Page      int
	Limit     int
	Direction string
	JobID     string
}

// Pagination describes one offset page.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListSmsResult is returned by SmsService.List.
type ListSmsResult struct {
	Messages   []domain.SmsMessage
	Pagination Pagination
	Stats      map[string]int64
}

// SendSmsInput carries an outbound text.
type SendSmsInput struct {
	ClientID string
	To       string
	Body     string
	JobID    string
}

// InboundSmsInput carries a provider webhook delivery.
type InboundSmsInput struct {
	ClientID  string
	URL       string
	Params    map[string]string
	Signature string
}

// TwilioCredentials are the tenant's account credentials.
type TwilioCredentials struct {
	AccountSID string
	AuthToken  string
	From       string
}

// SentSms is what the provider reports after accepting a message.
type SentSms struct {
	SID    string
	Status string
}

// SmsSender delivers texts through the provider and verifies its webhooks.
type SmsSender interface {
	Send(ctx context.Context, creds TwilioCredentials, to, body string) (*SentSms, error)
	ValidateSignature(authToken, url string, params map[string]string, signature string) bool
}

// SmsService manages a tenant's SMS log.
type SmsService interface {
	List(ctx context.Context, in ListSmsInput) (*ListSmsResult, error)
	Send(ctx context.Context, in SendSmsInput) (*domain.SmsMessage, error)
	ReceiveInbound(ctx context.Context, in InboundSmsInput) (*domain.SmsMessage, error)
}
