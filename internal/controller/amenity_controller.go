package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"facade_backend/internal/model"
	"facade_backend/internal/repository"
	"facade_backend/pkg/logger"
)

type AmenityInput struct {
	Name  string  `json:"name" validate:"required"`
	Image *string `json:"image"`
}

type AmenityController struct {
	amenities *repository.AmenityRepository
	buildings *repository.BuildingRepository
	cache     *buildingCache
}

func NewAmenityController(amenities *repository.AmenityRepository, buildings *repository.BuildingRepository, bc *buildingCache) *AmenityController {
	return &AmenityController{amenities: amenities, buildings: buildings, cache: bc}
}

// Create appends an amenity at the end of the building's list.
func (ac *AmenityController) Create(c *fiber.Ctx) error {
	buildingID := c.Params("id")

	input := new(AmenityInput)
	if err := c.BodyParser(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Name is required")
	}

	ctx := c.UserContext()
	exists, err := ac.buildings.Exists(ctx, buildingID)
	if err != nil {
		logger.Log.WithError(err).WithField("building_id", buildingID).Error("Error creating amenity")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create amenity")
	}
	if !exists {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}

	amenity := &model.Amenity{
		BuildingID: buildingID,
		Name:       input.Name,
		Image:      emptyToNil(input.Image),
	}
	if err := ac.amenities.Create(ctx, amenity); err != nil {
		logger.Log.WithError(err).WithField("building_id", buildingID).Error("Error creating amenity")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create amenity")
	}

	ac.cache.invalidateByID(ctx, buildingID)
	return c.Status(fiber.StatusCreated).JSON(amenity)
}

func (ac *AmenityController) Delete(c *fiber.Ctx) error {
	buildingID := c.Params("id")
	amenityID := c.Params("amenityId")
	ctx := c.UserContext()

	err := ac.amenities.Delete(ctx, buildingID, amenityID)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Amenity not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{"building_id": buildingID, "amenity_id": amenityID}).Error("Error deleting amenity")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete amenity")
	}

	ac.cache.invalidateByID(ctx, buildingID)
	return success(c)
}
