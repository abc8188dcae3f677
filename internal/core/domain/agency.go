package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agency operates one or more client businesses.
type Agency struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Clients   []Client  `json:"-" gorm:"foreignKey:AgencyID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Agency) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
