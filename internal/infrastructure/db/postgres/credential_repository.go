package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// CredentialRepository stores one api_settings row per client.
type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Get(ctx context.Context, clientID string) (*domain.APISettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var settings domain.APISettings
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Take(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.APISettings{ClientID: clientID}, nil
		}
		return nil, fmt.Errorf("find api settings: %w", err)
	}
	return &settings, nil
}

func (r *CredentialRepository) Save(ctx context.Context, settings *domain.APISettings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
	if err != nil {
		return fmt.Errorf("save api settings: %w", err)
	}
	return nil
}
