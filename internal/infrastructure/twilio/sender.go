// Package twilio adapts the Twilio REST API to ports.SmsSender.
package twilio

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

const providerLabel = "twilio"

// Sender sends texts with per-tenant credentials. A REST client is built for
// every call because each tenant brings its own account.
type Sender struct {
	timeout time.Duration
}

func NewSender(timeout time.Duration) *Sender {
	return &Sender{timeout: timeout}
}

func (s *Sender) Send(ctx context.Context, creds ports.TwilioCredentials, to, body string) (*ports.SentSms, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: creds.AccountSID,
		Password: creds.AuthToken,
	})
	if s.timeout > 0 {
		client.SetTimeout(s.timeout)
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(creds.From)
	params.SetBody(body)

	start := time.Now()
	resp, err := client.Api.CreateMessage(params)
	metrics.ProviderRequestDuration.WithLabelValues(providerLabel, metrics.ResultLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: twilio create message: %v", domain.ErrUpstream, err)
	}

	sent := &ports.SentSms{Status: domain.SmsStatusQueued}
	if resp.Sid != nil {
		sent.SID = *resp.Sid
	}
	if resp.Status != nil && *resp.Status != "" {
		sent.Status = *resp.Status
	}
	return sent, nil
}

// ValidateSignature checks the X-Twilio-Signature header of a webhook.
func (s *Sender) ValidateSignature(authToken, url string, params map[string]string, signature string) bool {
	if authToken == "" || signature == "" {
		return false
	}
	v := twclient.NewRequestValidator(authToken)
	return v.Validate(url, params, signature)
}
