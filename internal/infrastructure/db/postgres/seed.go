package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// Fixtures is a bundle of rows loaded by Seed. Rows are matched on primary
// key, and access rows on (user_id, client_id).
type Fixtures struct {
	Agencies  []domain.Agency
	Clients   []domain.Client
	Users     []domain.User
	Accesses  []domain.ClientAccess
	Templates []domain.DeploymentTemplate
}

// Seed upserts fixtures in one transaction so a partial file never lands.
func Seed(ctx context.Context, db *gorm.DB, f Fixtures) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})

		for i := range f.Agencies {
			if err := upsert.Omit("Clients").Create(&f.Agencies[i]).Error; err != nil {
				return fmt.Errorf("seed agency %s: %w", f.Agencies[i].ID, err)
			}
		}
		for i := range f.Clients {
			if err := upsert.Create(&f.Clients[i]).Error; err != nil {
				return fmt.Errorf("seed client %s: %w", f.Clients[i].Slug, err)
			}
		}
		for i := range f.Users {
			if err := upsert.Omit("Agency", "Accesses").Create(&f.Users[i]).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", f.Users[i].Email, err)
			}
		}
		for i := range f.Templates {
			if err := upsert.Create(&f.Templates[i]).Error; err != nil {
				return fmt.Errorf("seed template %s: %w", f.Templates[i].Name, err)
			}
		}
		for i := range f.Accesses {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "client_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"role"}),
			}).Omit("Client").Create(&f.Accesses[i]).Error
			if err != nil {
				return fmt.Errorf("seed access %s/%s: %w", f.Accesses[i].UserID, f.Accesses[i].ClientID, err)
			}
		}
		return nil
	})
}
