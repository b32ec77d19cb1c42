package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Amenity struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	BuildingID string    `json:"buildingId" gorm:"type:varchar(36);index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Image      *string   `json:"image"`
	Order      int       `json:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Amenity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
