package twilio

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskifye/integration-hub/internal/core/ports"
)

// sign reproduces the X-Twilio-Signature algorithm: HMAC-SHA1 over the URL
// followed by every parameter name and value in name order.
func sign(token, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := url
	for _, k := range keys {
		payload += k + params[k]
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSender_ValidateSignature(t *testing.T) {
	s := NewSender(0)
	url := "https://hub.example.com/api/sms/webhook?clientId=client-1"
	params := map[string]string{
		"From":       "+15551234567",
		"To":         "+15550001111",
		"Body":       "Running late?",
		"MessageSid": "SM9",
	}
	good := sign("auth-token", url, params)

	assert.True(t, s.ValidateSignature("auth-token", url, params, good))
	assert.False(t, s.ValidateSignature("other-token", url, params, good))
	assert.False(t, s.ValidateSignature("auth-token", url, map[string]string{"Body": "tampered"}, good))
	assert.False(t, s.ValidateSignature("auth-token", url, params, ""))
	assert.False(t, s.ValidateSignature("", url, params, good))
}

func TestSender_Send_CancelledContext(t *testing.T) {
	s := NewSender(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Send(ctx, ports.TwilioCredentials{AccountSID: "AC1", AuthToken: "t", From: "+1"}, "+2", "hi")
	assert.ErrorIs(t, err, context.Canceled)
}
