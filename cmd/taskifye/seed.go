package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/postgres"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Agencies    []seedAgency     `yaml:"agencies"`
	Clients     []seedClient     `yaml:"clients"`
	Users       []seedUser       `yaml:"users"`
	Access      []seedAccess     `yaml:"access"`
	Templates   []seedTemplate   `yaml:"templates"`
	Credentials []seedCredential `yaml:"credentials"`
}

type seedAgency struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type seedBranding struct {
	LogoURL        string `yaml:"logoUrl"`
	PrimaryColor   string `yaml:"primaryColor"`
	SecondaryColor string `yaml:"secondaryColor"`
	Slogan         string `yaml:"slogan"`
	SupportEmail   string `yaml:"supportEmail"`
	SupportPhone   string `yaml:"supportPhone"`
	Website        string `yaml:"website"`
}

type seedSettings struct {
	Timezone     string         `yaml:"timezone"`
	Currency     string         `yaml:"currency"`
	CustomFields map[string]any `yaml:"customFields"`
}

type seedClient struct {
	ID           string       `yaml:"id"`
	AgencyID     string       `yaml:"agencyId"`
	CompanyName  string       `yaml:"companyName"`
	Slug         string       `yaml:"slug"`
	BusinessType string       `yaml:"businessType"`
	Plan         string       `yaml:"plan"`
	Branding     seedBranding `yaml:"branding"`
	Settings     seedSettings `yaml:"settings"`
}

type seedUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	AgencyID string `yaml:"agencyId"`
	Password string `yaml:"password"`
}

type seedAccess struct {
	User   string `yaml:"user"` // email
	Client string `yaml:"client"`
	Role   string `yaml:"role"`
}

type seedTemplate struct {
	ID             string       `yaml:"id"`
	AgencyID       string       `yaml:"agencyId"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	BusinessType   string       `yaml:"businessType"`
	Branding       seedBranding `yaml:"branding"`
	Settings       seedSettings `yaml:"settings"`
	Stages         any          `yaml:"stages"`
	EmailTemplates any          `yaml:"emailTemplates"`
}

type seedCredential struct {
	Client string            `yaml:"client"`
	Fields map[string]string `yaml:"fields"`
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load agencies, clients, users and templates from a YAML file",
		Long: `Upsert fixtures from a YAML file. Rows are matched by id; users are
matched by email and receive a stable id derived from it.

Example:
  taskifye seed --file deploy/seed.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var sf seedFile
			if err := yaml.Unmarshal(raw, &sf); err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}
			fixtures, err := sf.fixtures()
			if err != nil {
				return err
			}

			db, err := openPostgres(cmd, cfg)
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			if err := postgres.AutoMigrate(ctx, db); err != nil {
				return err
			}
			if err := postgres.Seed(ctx, db, fixtures); err != nil {
				return err
			}

			creds := postgres.NewCredentialRepository(db)
			for _, sc := range sf.Credentials {
				settings, err := creds.Get(ctx, sc.Client)
				if err != nil {
					return err
				}
				patch := make(map[string]*string, len(sc.Fields))
				for k, v := range sc.Fields {
					v := v
					patch[k] = &v
				}
				if err := settings.Apply(patch); err != nil {
					return fmt.Errorf("credentials for %s: %w", sc.Client, err)
				}
				if err := creds.Save(ctx, settings); err != nil {
					return err
				}
			}

			log.Info().
				Int("agencies", len(fixtures.Agencies)).
				Int("clients", len(fixtures.Clients)).
				Int("users", len(fixtures.Users)).
				Int("access", len(fixtures.Accesses)).
				Int("templates", len(fixtures.Templates)).
				Int("credentials", len(sf.Credentials)).
				Msg("seed applied")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "path to the seed YAML file")
	return cmd
}

// userID derives a stable id so re-running the seed updates rather than
// duplicates a user.
func userID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("taskifye:user:"+strings.ToLower(email))).String()
}

func (sf seedFile) fixtures() (postgres.Fixtures, error) {
	var f postgres.Fixtures

	for _, a := range sf.Agencies {
		f.Agencies = append(f.Agencies, domain.Agency{ID: a.ID, Name: a.Name, Email: a.Email})
	}

	for _, c := range sf.Clients {
		if c.ID == "" || c.AgencyID == "" || c.Slug == "" {
			return f, fmt.Errorf("client %q: id, agencyId and slug are required", c.CompanyName)
		}
		plan := c.Plan
		if plan == "" {
			plan = "starter"
		}
		f.Clients = append(f.Clients, domain.Client{
			ID:           c.ID,
			AgencyID:     c.AgencyID,
			CompanyName:  c.CompanyName,
			Slug:         c.Slug,
			BusinessType: c.BusinessType,
			Branding:     c.Branding.domain(),
			Settings:     c.Settings.domain(),
			Subscription: domain.Subscription{Plan: plan, Status: domain.SubscriptionActive},
		})
	}

	for _, u := range sf.Users {
		if !domain.ValidRole(u.Role) {
			return f, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
		user := domain.User{
			ID:    userID(u.Email),
			Name:  u.Name,
			Email: strings.ToLower(u.Email),
			Role:  u.Role,
		}
		if u.AgencyID != "" {
			agencyID := u.AgencyID
			user.AgencyID = &agencyID
		}
		if u.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return f, fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			user.PasswordHash = string(hash)
		}
		f.Users = append(f.Users, user)
	}

	for _, a := range sf.Access {
		if !domain.ValidRole(a.Role) {
			return f, fmt.Errorf("access %s/%s: unknown role %q", a.User, a.Client, a.Role)
		}
		f.Accesses = append(f.Accesses, domain.ClientAccess{
			UserID:   userID(a.User),
			ClientID: a.Client,
			Role:     a.Role,
		})
	}

	for _, t := range sf.Templates {
		stages, err := toJSON(t.Stages)
		if err != nil {
			return f, fmt.Errorf("template %s stages: %w", t.Name, err)
		}
		emails, err := toJSON(t.EmailTemplates)
		if err != nil {
			return f, fmt.Errorf("template %s emailTemplates: %w", t.Name, err)
		}
		f.Templates = append(f.Templates, domain.DeploymentTemplate{
			ID:             t.ID,
			AgencyID:       t.AgencyID,
			Name:           t.Name,
			Description:    t.Description,
			BusinessType:   t.BusinessType,
			Branding:       t.Branding.domain(),
			Settings:       t.Settings.domain(),
			Stages:         stages,
			EmailTemplates: emails,
		})
	}

	return f, nil
}

func (b seedBranding) domain() domain.Branding {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return domain.Branding{
		LogoURL:        opt(b.LogoURL),
		PrimaryColor:   opt(b.PrimaryColor),
		SecondaryColor: opt(b.SecondaryColor),
		Slogan:         opt(b.Slogan),
		SupportEmail:   opt(b.SupportEmail),
		SupportPhone:   opt(b.SupportPhone),
		Website:        opt(b.Website),
	}
}

func (s seedSettings) domain() domain.Settings {
	out := domain.Settings{Timezone: s.Timezone, Currency: s.Currency}
	if out.Timezone == "" {
		out.Timezone = "UTC"
	}
	if out.Currency == "" {
		out.Currency = "USD"
	}
	if len(s.CustomFields) > 0 {
		out.CustomFields = datatypes.JSONMap(s.CustomFields)
	}
	return out
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
