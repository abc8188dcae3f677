package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var client domain.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &client, nil
}

// UpdateColumns issues a single UPDATE touching only cols (plus updated_at).
func (r *ClientRepository) UpdateColumns(ctx context.Context, id string, cols map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) UpdateSettings(ctx context.Context, id string, settings domain.Settings) error {
	return r.UpdateColumns(ctx, id, map[string]any{
		"settings_timezone":      settings.Timezone,
		"settings_currency":      settings.Currency,
		"settings_custom_fields": settings.CustomFields,
	})
}

// CreateWithAccess inserts the client and the creator's access row atomically.
func (r *ClientRepository) CreateWithAccess(ctx context.Context, client *domain.Client, access *domain.ClientAccess) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.Invalid(fmt.Sprintf("slug %q is already taken", client.Slug))
			}
			return fmt.Errorf("create client: %w", err)
		}
		access.ClientID = client.ID
		if err := tx.Create(access).Error; err != nil {
			return fmt.Errorf("create client access: %w", err)
		}
		return nil
	})
}

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.DeploymentTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var templates []domain.DeploymentTemplate
	if err := r.db.WithContext(ctx).Where("agency_id = ?", agencyID).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.DeploymentTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var tpl domain.DeploymentTemplate
	if err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return &tpl, nil
}
