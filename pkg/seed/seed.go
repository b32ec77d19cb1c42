package seed

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"facade_backend/internal/model"
	"facade_backend/pkg/logger"
)

const DemoSlug = "melia-miami"

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// SeedDemoBuilding creates the demo showcase once. Running it again leaves
// an existing demo building untouched.
func SeedDemoBuilding(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Building{}).Where("slug = ?", DemoSlug).Count(&count).Error; err != nil {
		return fmt.Errorf("check demo building: %w", err)
	}
	if count > 0 {
		logger.Log.Debug("Demo building already present")
		return nil
	}

	building := model.Building{
		Name:        "Melia Miami",
		Slug:        DemoSlug,
		MainImage:   strPtr("https://images.unsplash.com/photo-1545324418-cc1a3fa10c00"),
		FacadeImage: strPtr("https://images.unsplash.com/photo-1486406146926-c627a92ad1ab"),
		Latitude:    floatPtr(25.7617),
		Longitude:   floatPtr(-80.1918),
		Address:     strPtr("1000 Brickell Ave, Miami, FL"),
		Whatsapp:    strPtr("+1 305 555 0100"),
		Email:       strPtr("sales@melia-miami.example"),
		Website:     strPtr("https://melia-miami.example"),
		FacadePoints: []model.FacadePoint{
			{
				Name:         "Penthouse A",
				X:            55.3,
				Y:            12.8,
				Images:       datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c"},
				TotalArea:    floatPtr(240),
				InternalArea: floatPtr(190),
				ExternalArea: floatPtr(50),
				Bedrooms:     intPtr(3),
				Bathrooms:    intPtr(3),
				HasBalcony:   true,
				HasTerrace:   true,
			},
			{
				Name:       "Garden Suite",
				X:          30,
				Y:          82.5,
				Images:     datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1600585154340-be6161a56a0c"},
				TotalArea:  floatPtr(120),
				Bedrooms:   intPtr(2),
				Bathrooms:  intPtr(2),
				HasLaundry: true,
			},
		},
		Amenities: []model.Amenity{
			{Name: "Infinity Pool", Order: 0},
			{Name: "Fitness Center", Order: 1},
		},
	}

	points := building.FacadePoints
	building.FacadePoints = nil

	// Points go in one at a time so their creation order is the listed one.
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&building).Error; err != nil {
			return fmt.Errorf("create demo building: %w", err)
		}
		for i := range points {
			points[i].BuildingID = building.ID
			if err := tx.Create(&points[i]).Error; err != nil {
				return fmt.Errorf("create demo facade point: %w", err)
			}
		}
		logger.Log.WithField("slug", building.Slug).Info("Demo building seeded")
		return nil
	})
}
