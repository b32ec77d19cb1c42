package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"facade_backend/internal/model"
	"facade_backend/internal/repository"
	"facade_backend/pkg/logger"
	"facade_backend/pkg/utils/placement"
)

type FacadePointInput struct {
	Name       string   `json:"name" validate:"required"`
	X          *float64 `json:"x" validate:"required"`
	Y          *float64 `json:"y" validate:"required"`
	Images     []string `json:"images"`
	Tour3dURL  *string  `json:"tour3dUrl"`
	FloorPlan  *string  `json:"floorPlan"`
	Brochure   *string  `json:"brochure"`
	ViewImages []string `json:"viewImages"`

	TotalArea    *float64 `json:"totalArea"`
	InternalArea *float64 `json:"internalArea"`
	ExternalArea *float64 `json:"externalArea"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`

	HasBalcony  bool `json:"hasBalcony"`
	HasLaundry  bool `json:"hasLaundry"`
	HasTerrace  bool `json:"hasTerrace"`
	HasGameRoom bool `json:"hasGameRoom"`
}

// toModel applies the defaults: missing lists are empty, missing numbers
// null, missing flags false.
func (in *FacadePointInput) toModel(buildingID string) *model.FacadePoint {
	images := datatypes.JSONSlice[string]{}
	if in.Images != nil {
		images = datatypes.JSONSlice[string](in.Images)
	}
	viewImages := datatypes.JSONSlice[string]{}
	if in.ViewImages != nil {
		viewImages = datatypes.JSONSlice[string](in.ViewImages)
	}

	return &model.FacadePoint{
		BuildingID:   buildingID,
		Name:         in.Name,
		X:            *in.X,
		Y:            *in.Y,
		Images:       images,
		Tour3dURL:    emptyToNil(in.Tour3dURL),
		FloorPlan:    emptyToNil(in.FloorPlan),
		Brochure:     emptyToNil(in.Brochure),
		ViewImages:   viewImages,
		TotalArea:    in.TotalArea,
		InternalArea: in.InternalArea,
		ExternalArea: in.ExternalArea,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		HasBalcony:   in.HasBalcony,
		HasLaundry:   in.HasLaundry,
		HasTerrace:   in.HasTerrace,
		HasGameRoom:  in.HasGameRoom,
	}
}

type LocateInput struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

type FacadePointController struct {
	points    *repository.FacadePointRepository
	buildings *repository.BuildingRepository
	cache     *buildingCache
}

func NewFacadePointController(points *repository.FacadePointRepository, buildings *repository.BuildingRepository, bc *buildingCache) *FacadePointController {
	return &FacadePointController{points: points, buildings: buildings, cache: bc}
}

// parsePointInput returns the decoded body, or a message for a 400.
func parsePointInput(c *fiber.Ctx) (*FacadePointInput, string) {
	input := new(FacadePointInput)
	if err := c.BodyParser(input); err != nil {
		return nil, "Invalid input"
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, validationMessage(err)
	}
	if len(input.Images) > model.MaxPointImages {
		return nil, fmt.Sprintf("Maximum %d images allowed", model.MaxPointImages)
	}
	if len(input.ViewImages) > model.MaxPointImages {
		return nil, fmt.Sprintf("Maximum %d view images allowed", model.MaxPointImages)
	}
	return input, ""
}

func (pc *FacadePointController) Create(c *fiber.Ctx) error {
	buildingID := c.Params("id")

	input, msg := parsePointInput(c)
	if input == nil {
		return errorResponse(c, fiber.StatusBadRequest, msg)
	}

	ctx := c.UserContext()
	exists, err := pc.buildings.Exists(ctx, buildingID)
	if err != nil {
		logger.Log.WithError(err).WithField("building_id", buildingID).Error("Error creating facade point")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create facade point")
	}
	if !exists {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}

	point := input.toModel(buildingID)
	if err := pc.points.Create(ctx, point); err != nil {
		logger.Log.WithError(err).WithField("building_id", buildingID).Error("Error creating facade point")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create facade point")
	}

	pc.cache.invalidateByID(ctx, buildingID)
	return c.Status(fiber.StatusCreated).JSON(point)
}

// Update replaces the whole point; fields missing from the body fall back
// to their defaults.
func (pc *FacadePointController) Update(c *fiber.Ctx) error {
	buildingID := c.Params("id")
	pointID := c.Params("pointId")

	input, msg := parsePointInput(c)
	if input == nil {
		return errorResponse(c, fiber.StatusBadRequest, msg)
	}

	ctx := c.UserContext()
	point, err := pc.points.Replace(ctx, buildingID, pointID, input.toModel(buildingID))
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Facade point not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{"building_id": buildingID, "point_id": pointID}).Error("Error updating facade point")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update facade point")
	}

	pc.cache.invalidateByID(ctx, buildingID)
	return c.JSON(point)
}

func (pc *FacadePointController) Delete(c *fiber.Ctx) error {
	buildingID := c.Params("id")
	pointID := c.Params("pointId")
	ctx := c.UserContext()

	err := pc.points.Delete(ctx, buildingID, pointID)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Facade point not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{"building_id": buildingID, "point_id": pointID}).Error("Error deleting facade point")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete facade point")
	}

	pc.cache.invalidateByID(ctx, buildingID)
	return success(c)
}

// Locate converts a click inside the rendered facade image into the
// percentage coordinates stored on a point.
func (pc *FacadePointController) Locate(c *fiber.Ctx) error {
	input := new(LocateInput)
	if err := c.BodyParser(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}

	point, err := placement.FromPixels(input.OffsetX, input.OffsetY, input.Width, input.Height)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(point)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
