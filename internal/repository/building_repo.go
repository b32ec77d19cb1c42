package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"facade_backend/internal/model"
)

type BuildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("FacadePoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("facade_points.created_at ASC")
		}).
		Preload("Amenities", func(db *gorm.DB) *gorm.DB {
			return db.Order("amenities.sort_order ASC").Order("amenities.created_at ASC")
		})
}

// List returns the summary projection of every building, newest first.
func (r *BuildingRepository) List(ctx context.Context) ([]model.BuildingSummary, error) {
	summaries := []model.BuildingSummary{}
	err := r.db.WithContext(ctx).
		Model(&model.Building{}).
		Select("id", "name", "slug", "main_image", "logo", "created_at").
		Order("created_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return summaries, nil
}

func (r *BuildingRepository) FindBySlug(ctx context.Context, slug string) (*model.Building, error) {
	var building model.Building
	if err := withChildren(r.db.WithContext(ctx)).Where("slug = ?", slug).First(&building).Error; err != nil {
		return nil, translate(err)
	}
	return &building, nil
}

func (r *BuildingRepository) FindByID(ctx context.Context, id string) (*model.Building, error) {
	var building model.Building
	if err := withChildren(r.db.WithContext(ctx)).Where("id = ?", id).First(&building).Error; err != nil {
		return nil, translate(err)
	}
	return &building, nil
}

// SlugOf returns only the slug, for cache invalidation after child writes.
func (r *BuildingRepository) SlugOf(ctx context.Context, id string) (string, error) {
	var building model.Building
	if err := r.db.WithContext(ctx).Select("id", "slug").Where("id = ?", id).First(&building).Error; err != nil {
		return "", translate(err)
	}
	return building.Slug, nil
}

func (r *BuildingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Building{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BuildingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Building{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BuildingRepository) Create(ctx context.Context, building *model.Building) error {
	if err := r.db.WithContext(ctx).Omit("FacadePoints", "Amenities").Create(building).Error; err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	building.FacadePoints = []model.FacadePoint{}
	building.Amenities = []model.Amenity{}
	return nil
}

// Update writes exactly the given columns and returns the reloaded record.
func (r *BuildingRepository) Update(ctx context.Context, id string, columns map[string]interface{}) (*model.Building, error) {
	db := r.db.WithContext(ctx)

	if len(columns) > 0 {
		result := db.Model(&model.Building{}).Where("id = ?", id).Updates(columns)
		if result.Error != nil {
			return nil, fmt.Errorf("update building %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// Delete removes the building together with its facade points and amenities.
func (r *BuildingRepository) Delete(ctx context.Context, id string) (*model.Building, error) {
	var building model.Building
	db := r.db.WithContext(ctx)
	if err := db.Select("id", "slug").Where("id = ?", id).First(&building).Error; err != nil {
		return nil, translate(err)
	}

	// Children are deleted explicitly so the cascade holds even where the
	// database does not enforce foreign keys (SQLite without the pragma).
	if err := db.Select("FacadePoints", "Amenities").Delete(&building).Error; err != nil {
		return nil, fmt.Errorf("delete building %s: %w", id, err)
	}
	return &building, nil
}
