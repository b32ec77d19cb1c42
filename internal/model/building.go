package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Building struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Media (URLs handed out by the media host)
	MainImage    *string `json:"mainImage"`
	Logo         *string `json:"logo"`
	FacadeImage  *string `json:"facadeImage"`
	InitialVideo *string `json:"initialVideo"`
	Brochure     *string `json:"brochure"`

	// Location
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`

	// Contact
	Whatsapp *string `json:"whatsapp"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Website  *string `json:"website"`

	FacadePoints []FacadePoint `json:"facadePoints" gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE"`
	Amenities    []Amenity     `json:"amenities" gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE"`
}

// BuildingSummary is the list projection of a building.
type BuildingSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	MainImage *string   `json:"mainImage"`
	Logo      *string   `json:"logo"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BuildingColumns maps PATCH-able JSON keys to their columns.
var BuildingColumns = map[string]string{
	"name":         "name",
	"slug":         "slug",
	"mainImage":    "main_image",
	"logo":         "logo",
	"facadeImage":  "facade_image",
	"initialVideo": "initial_video",
	"brochure":     "brochure",
	"latitude":     "latitude",
	"longitude":    "longitude",
	"address":      "address",
	"whatsapp":     "whatsapp",
	"phone":        "phone",
	"email":        "email",
	"website":      "website",
}
