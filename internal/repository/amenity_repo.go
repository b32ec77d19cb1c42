package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"facade_backend/internal/model"
)

type AmenityRepository struct {
	db *gorm.DB
}

func NewAmenityRepository(db *gorm.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

// Create appends the amenity: its order is the number of amenities the
// building has right now. Deleted amenities leave gaps; nothing renumbers.
func (r *AmenityRepository) Create(ctx context.Context, amenity *model.Amenity) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Amenity{}).Where("building_id = ?", amenity.BuildingID).Count(&count).Error; err != nil {
		return fmt.Errorf("count amenities: %w", err)
	}
	amenity.Order = int(count)

	if err := db.Create(amenity).Error; err != nil {
		return fmt.Errorf("create amenity: %w", err)
	}
	return nil
}

func (r *AmenityRepository) ListByBuilding(ctx context.Context, buildingID string) ([]model.Amenity, error) {
	amenities := []model.Amenity{}
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&amenities).Error
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return amenities, nil
}

func (r *AmenityRepository) Delete(ctx context.Context, buildingID, amenityID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND building_id = ?", amenityID, buildingID).
		Delete(&model.Amenity{})
	if result.Error != nil {
		return fmt.Errorf("delete amenity %s: %w", amenityID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
