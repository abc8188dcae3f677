package service

import (
	"context"
	"sync"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

func strPtr(s string) *string { return &s }

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindWithAccess(ctx context.Context, email string) (*domain.User, error) {
	return r.FindByEmail(ctx, email)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	if created.ID == "" {
		created.ID = "user-" + user.Email
	}
	r.users[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) AccessRole(_ context.Context, userID, clientID string) (string, error) {
	for _, u := range r.users {
		if u.ID != userID {
			continue
		}
		for _, a := range u.Accesses {
			if a.ClientID == clientID {
				return a.Role, nil
			}
		}
	}
	return "", nil
}

type stubClientRepo struct {
	clients     map[string]*domain.Client
	updatedCols map[string]any
	created     *domain.Client
	grant       *domain.ClientAccess
	createErr   error
}

func newStubClientRepo(clients ...*domain.Client) *stubClientRepo {
	r := &stubClientRepo{clients: make(map[string]*domain.Client)}
	for _, c := range clients {
		r.clients[c.ID] = c
	}
	return r
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) UpdateColumns(_ context.Context, id string, cols map[string]any) error {
	c, ok := r.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	r.updatedCols = cols
	for col, v := range cols {
		var val *string
		if s, ok := v.(string); ok {
			val = &s
		}
		switch col {
		case "branding_logo_url":
			c.Branding.LogoURL = val
		case "branding_primary_color":
			c.Branding.PrimaryColor = val
		case "branding_secondary_color":
			c.Branding.SecondaryColor = val
		case "branding_slogan":
			c.Branding.Slogan = val
		case "branding_support_email":
			c.Branding.SupportEmail = val
		case "branding_support_phone":
			c.Branding.SupportPhone = val
		case "branding_website":
			c.Branding.Website = val
		}
	}
	return nil
}

func (r *stubClientRepo) UpdateSettings(_ context.Context, id string, settings domain.Settings) error {
	c, ok := r.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.Settings = settings
	return nil
}

func (r *stubClientRepo) CreateWithAccess(_ context.Context, client *domain.Client, access *domain.ClientAccess) error {
	if r.createErr != nil {
		return r.createErr
	}
	if client.ID == "" {
		client.ID = "client-" + client.Slug
	}
	access.ClientID = client.ID
	r.clients[client.ID] = client
	r.created = client
	r.grant = access
	return nil
}

type stubTemplateRepo struct {
	templates []domain.DeploymentTemplate
}

func (r *stubTemplateRepo) ListByAgency(_ context.Context, agencyID string) ([]domain.DeploymentTemplate, error) {
	out := []domain.DeploymentTemplate{}
	for _, t := range r.templates {
		if t.AgencyID == agencyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTemplateRepo) FindByID(_ context.Context, id string) (*domain.DeploymentTemplate, error) {
	for _, t := range r.templates {
		if t.ID == id {
			tpl := t
			return &tpl, nil
		}
	}
	return nil, domain.ErrTemplateNotFound
}

type stubCredentialStore struct {
	mu      sync.Mutex
	records map[string]domain.APISettings
	saves   int
	getErr  error
	saveErr error
}

func newStubCredentialStore(records ...domain.APISettings) *stubCredentialStore {
	s := &stubCredentialStore{records: make(map[string]domain.APISettings)}
	for _, r := range records {
		s.records[r.ClientID] = r
	}
	return s
}

func (s *stubCredentialStore) Get(_ context.Context, clientID string) (*domain.APISettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[clientID]
	if !ok {
		return &domain.APISettings{ClientID: clientID}, nil
	}
	return &rec, nil
}

func (s *stubCredentialStore) Save(_ context.Context, settings *domain.APISettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records[settings.ClientID] = *settings
	return nil
}

type stubKeyCache struct {
	cleared []string
	keys    map[string]string
}

func (c *stubKeyCache) Get(_ context.Context, clientID string, provider domain.Provider) (string, bool, error) {
	k, ok := c.keys[clientID+"/"+string(provider)]
	return k, ok, nil
}

func (c *stubKeyCache) Clear(clientID string) {
	c.cleared = append(c.cleared, clientID)
}

func (c *stubKeyCache) Peek(clientID string, provider domain.Provider) bool {
	_, ok := c.keys[clientID+"/"+string(provider)]
	return ok
}

type stubPublisher struct {
	published []string
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, clientID string) error {
	p.published = append(p.published, clientID)
	return p.err
}

var _ ports.APIKeyCache = (*stubKeyCache)(nil)
