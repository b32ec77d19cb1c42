package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"facade_backend/internal/model"
)

type FacadePointRepository struct {
	db *gorm.DB
}

func NewFacadePointRepository(db *gorm.DB) *FacadePointRepository {
	return &FacadePointRepository{db: db}
}

func (r *FacadePointRepository) Create(ctx context.Context, point *model.FacadePoint) error {
	if err := r.db.WithContext(ctx).Create(point).Error; err != nil {
		return fmt.Errorf("create facade point: %w", err)
	}
	return nil
}

func (r *FacadePointRepository) Find(ctx context.Context, buildingID, pointID string) (*model.FacadePoint, error) {
	var point model.FacadePoint
	err := r.db.WithContext(ctx).
		Where("id = ? AND building_id = ?", pointID, buildingID).
		First(&point).Error
	if err != nil {
		return nil, translate(err)
	}
	return &point, nil
}

// Replace overwrites every editable column of the point with the values in
// point. Identity and creation time are kept from the stored row.
func (r *FacadePointRepository) Replace(ctx context.Context, buildingID, pointID string, point *model.FacadePoint) (*model.FacadePoint, error) {
	existing, err := r.Find(ctx, buildingID, pointID)
	if err != nil {
		return nil, err
	}

	point.ID = existing.ID
	point.BuildingID = existing.BuildingID
	point.CreatedAt = existing.CreatedAt

	if err := r.db.WithContext(ctx).Save(point).Error; err != nil {
		return nil, fmt.Errorf("update facade point %s: %w", pointID, err)
	}
	return point, nil
}

func (r *FacadePointRepository) Delete(ctx context.Context, buildingID, pointID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND building_id = ?", pointID, buildingID).
		Delete(&model.FacadePoint{})
	if result.Error != nil {
		return fmt.Errorf("delete facade point %s: %w", pointID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
