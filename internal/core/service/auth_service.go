package service

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

const tokenIssuer = "taskifye-hub"

// AuthService owns hub accounts and signs their bearer tokens.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register stores a new account with a bcrypt hash. Role defaults to
// viewer; anything else needs an admin inviter (see grant).
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("name, email and password are required")
	}
	role := cmp.Or(in.Role, domain.RoleViewer)
	if !domain.ValidRole(role) {
		return nil, domain.Invalid(fmt.Sprintf("unknown role %q", role))
	}
	agencyID, err := grant(in.Inviter, role, in.AgencyID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if agencyID != "" {
		user.AgencyID = &agencyID
	}

	return s.repo.Create(ctx, user)
}

// grant decides whether inv may create an account with role in agencyID and
// returns the agency the account ends up in.
//   - no admin inviter: viewer only, no agency
//   - agency admin: any role below super admin, always in the inviter's agency
//   - super admin: anything
func grant(inv *ports.Inviter, role, agencyID string) (string, error) {
	switch {
	case inv != nil && inv.Role == domain.RoleSuperAdmin:
		return agencyID, nil
	case inv != nil && inv.Role == domain.RoleAgencyAdmin:
		if role == domain.RoleSuperAdmin {
			return "", fmt.Errorf("%w: agency admins cannot create super admins", domain.ErrForbidden)
		}
		if agencyID != "" && agencyID != inv.AgencyID {
			return "", fmt.Errorf("%w: agency %q is not the inviter's", domain.ErrForbidden, agencyID)
		}
		return inv.AgencyID, nil
	}
	if role != domain.RoleViewer || agencyID != "" {
		return "", fmt.Errorf("%w: role and agency require an admin", domain.ErrForbidden)
	}
	return "", nil
}

// Login verifies the password and signs a bearer token for the account.
// A blank email or password fails like a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claimsFor(user, time.Now())).
		SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// claimsFor mirrors what middleware.Auth reads back.
func (s *AuthService) claimsFor(u *domain.User, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"iss":   tokenIssuer,
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	if u.AgencyID != nil {
		claims["agency_id"] = *u.AgencyID
	}
	return claims
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
