package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// AccessService maps a user to the agency and clients it may act on.
type AccessService struct {
	users     ports.UserRepository
	clients   ports.ClientRepository
	templates ports.TemplateRepository
	logger    zerolog.Logger
}

func NewAccessService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	templates ports.TemplateRepository,
	logger zerolog.Logger,
) *AccessService {
	return &AccessService{users: users, clients: clients, templates: templates, logger: logger}
}

// ListAccessibleClients returns the user, its agency and one summary per
// ClientAccess row. The list is not paginated.
func (s *AccessService) ListAccessibleClients(ctx context.Context, email string) (*ports.AccessibleClients, error) {
	user, err := s.users.FindWithAccess(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	clients := make([]ports.ClientSummary, 0, len(user.Accesses))
	for _, access := range user.Accesses {
		clients = append(clients, summarize(access))
	}

	return &ports.AccessibleClients{
		User:    user,
		Agency:  user.Agency,
		Clients: clients,
	}, nil
}

func summarize(access domain.ClientAccess) ports.ClientSummary {
	c := access.Client
	summary := ports.ClientSummary{
		ID:           access.ClientID,
		Name:         c.CompanyName,
		Slug:         c.Slug,
		BusinessType: c.BusinessType,
		Role:         access.Role,
	}
	if c.Branding.PrimaryColor != nil || c.Branding.SecondaryColor != nil {
		summary.Branding = &ports.BrandingSummary{
			PrimaryColor:   c.Branding.PrimaryColor,
			SecondaryColor: c.Branding.SecondaryColor,
			CompanyName:    c.CompanyName,
		}
	}
	return summary
}

// HasAccess reports whether email may act on clientID. Super admins may act
// on every client.
func (s *AccessService) HasAccess(ctx context.Context, email, clientID string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.Role == domain.RoleSuperAdmin {
		return true, nil
	}
	role, err := s.users.AccessRole(ctx, user.ID, clientID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// ListTemplates returns the deployment templates of the user's agency.
func (s *AccessService) ListTemplates(ctx context.Context, email string) ([]domain.DeploymentTemplate, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.AgencyID == nil {
		return []domain.DeploymentTemplate{}, nil
	}
	return s.templates.ListByAgency(ctx, *user.AgencyID)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses every non-alphanumeric run into "-".
func slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// OnboardClient creates a client under the user's agency, applying the
// optional template's defaults, and grants the user access to it.
func (s *AccessService) OnboardClient(ctx context.Context, email string, in ports.OnboardClientInput) (*domain.Client, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.AgencyID == nil {
		return nil, fmt.Errorf("onboard client: %w: user has no agency", domain.ErrForbidden)
	}
	if user.Role != domain.RoleSuperAdmin && user.Role != domain.RoleAgencyAdmin {
		return nil, fmt.Errorf("onboard client: %w: role %s cannot onboard", domain.ErrForbidden, user.Role)
	}

	slug := in.Slug
	if slug == "" {
		slug = slugify(in.CompanyName)
	}
	if in.CompanyName == "" || slug == "" {
		return nil, domain.Invalid("company name is required")
	}

	client := &domain.Client{
		AgencyID:     *user.AgencyID,
		CompanyName:  in.CompanyName,
		Slug:         slug,
		BusinessType: in.BusinessType,
		Settings:     domain.Settings{Timezone: "UTC", Currency: "USD"},
		Subscription: domain.Subscription{Plan: "starter", Status: domain.SubscriptionTrialing},
	}

	if in.TemplateID != "" {
		tpl, err := s.templates.FindByID(ctx, in.TemplateID)
		if err != nil {
			return nil, err
		}
		if tpl.AgencyID != *user.AgencyID {
			return nil, fmt.Errorf("onboard client: %w: template belongs to another agency", domain.ErrForbidden)
		}
		if err := applyTemplate(client, tpl); err != nil {
			return nil, err
		}
	}

	access := &domain.ClientAccess{UserID: user.ID, Role: user.Role}
	if err := s.clients.CreateWithAccess(ctx, client, access); err != nil {
		return nil, fmt.Errorf("onboard client: %w", err)
	}

	s.logger.Info().
		Str("client_id", client.ID).
		Str("agency_id", client.AgencyID).
		Str("template_id", in.TemplateID).
		Msg("client onboarded")
	return client, nil
}

// applyTemplate deep-copies the template's defaults onto client. Fields the
// caller already set win over the template.
func applyTemplate(client *domain.Client, tpl *domain.DeploymentTemplate) error {
	if err := copier.CopyWithOption(&client.Branding, &tpl.Branding, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("apply template branding: %w", err)
	}
	if err := copier.CopyWithOption(&client.Settings, &tpl.Settings, copier.Option{DeepCopy: true, IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("apply template settings: %w", err)
	}
	if client.BusinessType == "" {
		client.BusinessType = tpl.BusinessType
	}
	return nil
}
