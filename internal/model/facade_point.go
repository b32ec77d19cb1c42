package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxPointImages caps both the gallery and the view images of a point.
const MaxPointImages = 5

type FacadePoint struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	BuildingID string    `json:"buildingId" gorm:"type:varchar(36);index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	X          float64   `json:"x" gorm:"not null"` // percent of facade width
	Y          float64   `json:"y" gorm:"not null"` // percent of facade height
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Images     datatypes.JSONSlice[string] `json:"images"`
	Tour3dURL  *string                     `json:"tour3dUrl" gorm:"column:tour3d_url"`
	FloorPlan  *string                     `json:"floorPlan"`
	Brochure   *string                     `json:"brochure"`
	ViewImages datatypes.JSONSlice[string] `json:"viewImages"`

	TotalArea    *float64 `json:"totalArea"`
	InternalArea *float64 `json:"internalArea"`
	ExternalArea *float64 `json:"externalArea"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`

	HasBalcony  bool `json:"hasBalcony" gorm:"not null;default:false"`
	HasLaundry  bool `json:"hasLaundry" gorm:"not null;default:false"`
	HasTerrace  bool `json:"hasTerrace" gorm:"not null;default:false"`
	HasGameRoom bool `json:"hasGameRoom" gorm:"not null;default:false"`
}

func (p *FacadePoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.normalize()
	return nil
}

func (p *FacadePoint) BeforeSave(tx *gorm.DB) error {
	p.normalize()
	return nil
}

// normalize keeps the list columns as JSON arrays instead of null.
func (p *FacadePoint) normalize() {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.ViewImages == nil {
		p.ViewImages = datatypes.JSONSlice[string]{}
	}
}
