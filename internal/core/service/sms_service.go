package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

const (
	defaultSmsPageSize = 20
	maxSmsPageSize     = 100
	maxSmsPage         = 1_000_000
)

// SmsService reads and appends to a tenant's SMS log.
type SmsService struct {
	repo   ports.SmsRepository
	store  ports.CredentialRepository
	sender ports.SmsSender
	log    zerolog.Logger
	now    func() time.Time
}

func NewSmsService(repo ports.SmsRepository, store ports.CredentialRepository, sender ports.SmsSender, log zerolog.Logger) *SmsService {
	return &SmsService{repo: repo, store: store, sender: sender, log: log, now: time.Now}
}

// List returns one page of the tenant's messages, the pagination envelope and
// a count of all tenant messages by status.
func (s *SmsService) List(ctx context.Context, in ports.ListSmsInput) (*ports.ListSmsResult, error) {
	if in.ClientID == "" {
		return nil, domain.Invalid("Client ID is required")
	}
	if in.Direction != "" && !domain.SmsDirection(in.Direction).Valid() {
		return nil, domain.Invalid("direction must be one of: inbound, outbound")
	}

	page := min(max(in.Page, 1), maxSmsPage)
	limit := in.Limit
	if limit < 1 {
		limit = defaultSmsPageSize
	}
	if limit > maxSmsPageSize {
		limit = maxSmsPageSize
	}

	messages, total, err := s.repo.List(ctx, ports.ListSmsFilter{
		ClientID:  in.ClientID,
		Direction: in.Direction,
		JobID:     in.JobID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list sms: %w", err)
	}

	stats, err := s.repo.CountByStatus(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("sms stats: %w", err)
	}

	if messages == nil {
		messages = []domain.SmsMessage{}
	}
	return &ports.ListSmsResult{
		Messages: messages,
		Pagination: ports.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
		Stats: stats,
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Send delivers a text with the tenant's Twilio account and records it. A
// provider failure is still recorded, with status failed.
func (s *SmsService) Send(ctx context.Context, in ports.SendSmsInput) (*domain.SmsMessage, error) {
	if in.ClientID == "" {
		return nil, domain.Invalid("Client ID is required")
	}
	if strings.TrimSpace(in.To) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, domain.Invalid("to and body are required")
	}

	creds, err := s.twilioCredentials(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if creds.From == "" {
		return nil, fmt.Errorf("%w: twilio phone number is not configured", domain.ErrProviderNotConnected)
	}

	msg := &domain.SmsMessage{
		ID:        uuid.NewString(),
		ClientID:  in.ClientID,
		Direction: domain.DirectionOutbound,
		From:      creds.From,
		To:        in.To,
		Body:      in.Body,
		CreatedAt: s.now().UTC(),
	}
	if in.JobID != "" {
		jobID := in.JobID
		msg.JobID = &jobID
	}

	sent, sendErr := s.sender.Send(ctx, *creds, in.To, in.Body)
	if sendErr != nil {
		msg.Status = domain.SmsStatusFailed
		msg.Error = sendErr.Error()
	} else {
		msg.Status = sent.Status
		if msg.Status == "" {
			msg.Status = domain.SmsStatusQueued
		}
		msg.ProviderSID = sent.SID
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("record outbound sms: %w", err)
	}

	if sendErr != nil {
		s.log.Error().Err(sendErr).Str("client_id", in.ClientID).Str("message_id", msg.ID).Msg("sms send failed")
		return msg, fmt.Errorf("%w: %v", domain.ErrUpstream, sendErr)
	}
	s.log.Info().Str("client_id", in.ClientID).Str("sid", msg.ProviderSID).Msg("sms sent")
	return msg, nil
}

// ReceiveInbound verifies a provider webhook and records the inbound text.
func (s *SmsService) ReceiveInbound(ctx context.Context, in ports.InboundSmsInput) (*domain.SmsMessage, error) {
	if in.ClientID == "" {
		return nil, domain.Invalid("Client ID is required")
	}

	creds, err := s.twilioCredentials(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !s.sender.ValidateSignature(creds.AuthToken, in.URL, in.Params, in.Signature) {
		return nil, domain.ErrInvalidSignature
	}

	msg := &domain.SmsMessage{
		ID:          uuid.NewString(),
		ClientID:    in.ClientID,
		Direction:   domain.DirectionInbound,
		From:        in.Params["From"],
		To:          in.Params["To"],
		Body:        in.Params["Body"],
		Status:      domain.SmsStatusReceived,
		ProviderSID: in.Params["MessageSid"],
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("record inbound sms: %w", err)
	}
	s.log.Info().Str("client_id", in.ClientID).Str("sid", msg.ProviderSID).Msg("sms received")
	return msg, nil
}

func (s *SmsService) twilioCredentials(ctx context.Context, clientID string) (*ports.TwilioCredentials, error) {
	settings, err := s.store.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	spec, _ := domain.LookupProvider(domain.ProviderTwilio)
	creds := settings.Credentials()
	if !spec.Connected(creds) {
		return nil, domain.ErrProviderNotConnected
	}
	return &ports.TwilioCredentials{
		AccountSID: creds[domain.FieldTwilioAccountSID],
		AuthToken:  creds[domain.FieldTwilioAuthToken],
		From:       creds[domain.FieldTwilioPhoneNumber],
	}, nil
}
