package domain

import "time"

// SmsDirection tells whether a message was received or sent.
type SmsDirection string

const (
	DirectionInbound  SmsDirection = "inbound"
	DirectionOutbound SmsDirection = "outbound"
)

// Valid reports whether d is a known direction.
func (d SmsDirection) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Message statuses recorded locally; provider statuses are stored verbatim.
const (
	SmsStatusReceived = "received"
	SmsStatusQueued   = "queued"
	SmsStatusFailed   = "failed"
)

// SmsMessage is one inbound or outbound text. The log is append-only.
type SmsMessage struct {
	ID          string       `json:"id" bson:"_id"`
	ClientID    string       `json:"clientId" bson:"client_id"`
	Direction   SmsDirection `json:"direction" bson:"direction"`
	From        string       `json:"from" bson:"from"`
	To          string       `json:"to" bson:"to"`
	Body        string       `json:"body" bson:"body"`
	Status      string       `json:"status" bson:"status"`
	ProviderSID string       `json:"providerSid,omitempty" bson:"provider_sid,omitempty"`
	JobID       *string      `json:"jobId" bson:"job_id,omitempty"`
	Error       string       `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
}
