package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"facade_backend/internal/model"
	"facade_backend/internal/repository"
	"facade_backend/pkg/logger"
	"facade_backend/pkg/utils/slug"
)

type BuildingInput struct {
	Name      string  `json:"name" validate:"required"`
	MainImage *string `json:"mainImage"`
	Logo      *string `json:"logo"`
}

type BuildingController struct {
	buildings *repository.BuildingRepository
	cache     *buildingCache
}

func NewBuildingController(buildings *repository.BuildingRepository, bc *buildingCache) *BuildingController {
	return &BuildingController{buildings: buildings, cache: bc}
}

// List returns every building newest first, or a single full building when
// the slug query parameter is set.
func (bc *BuildingController) List(c *fiber.Ctx) error {
	if s := c.Query("slug"); s != "" {
		building, err := bc.cache.load(c.UserContext(), s)
		if errors.Is(err, repository.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Building not found")
		}
		if err != nil {
			logger.Log.WithError(err).WithField("slug", s).Error("Error fetching building")
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch building")
		}
		return c.JSON(building)
	}

	buildings, err := bc.buildings.List(c.UserContext())
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching buildings")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch buildings")
	}
	return c.JSON(buildings)
}

func (bc *BuildingController) Create(c *fiber.Ctx) error {
	input := new(BuildingInput)
	if err := c.BodyParser(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Name is required")
	}

	ctx := c.UserContext()
	s, err := slug.Allocate(ctx, slug.Slugify(input.Name), bc.buildings.SlugExists)
	if err != nil {
		logger.Log.WithError(err).WithField("name", input.Name).Error("Error allocating slug")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create building")
	}

	building := &model.Building{
		Name:      input.Name,
		Slug:      s,
		MainImage: input.MainImage,
		Logo:      input.Logo,
	}

	// A concurrent create can take the slug between probe and insert; the
	// unique index rejects it and the caller gets the generic failure.
	if err := bc.buildings.Create(ctx, building); err != nil {
		logger.Log.WithError(err).WithField("slug", s).Error("Error creating building")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create building")
	}

	logger.Log.WithFields(logrus.Fields{"id": building.ID, "slug": building.Slug}).Info("Building created")
	return c.Status(fiber.StatusCreated).JSON(building)
}

func (bc *BuildingController) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	building, err := bc.buildings.FindByID(c.UserContext(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Error fetching building")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch building")
	}
	return c.JSON(building)
}

// Update applies a partial update. Only writable keys are persisted; the
// admin UI sends the whole record back, so read-only keys are ignored.
func (bc *BuildingController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}

	columns, err := buildingColumns(body)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	previous, err := bc.buildings.SlugOf(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Error updating building")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update building")
	}

	building, err := bc.buildings.Update(ctx, id, columns)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Error updating building")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update building")
	}

	bc.cache.invalidate(ctx, previous, building.Slug)
	return c.JSON(building)
}

func (bc *BuildingController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	ctx := c.UserContext()

	deleted, err := bc.buildings.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Error deleting building")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete building")
	}

	bc.cache.invalidate(ctx, deleted.Slug)
	logger.Log.WithFields(logrus.Fields{"id": id, "slug": deleted.Slug}).Info("Building deleted")
	return success(c)
}

var nullJSON = []byte("null")

// buildingColumns decodes the writable keys of a PATCH body into a column
// map. Values are stored as sent; only a JSON type the column cannot hold is
// rejected. A JSON null clears a nullable column.
func buildingColumns(body map[string]json.RawMessage) (map[string]interface{}, error) {
	columns := map[string]interface{}{}

	for key, raw := range body {
		column, ok := model.BuildingColumns[key]
		if !ok {
			continue
		}
		isNull := bytes.Equal(bytes.TrimSpace(raw), nullJSON)

		switch key {
		case "name", "slug":
			var v string
			if isNull || json.Unmarshal(raw, &v) != nil {
				return nil, errors.New(key + " must be a string")
			}
			columns[column] = v

		case "latitude", "longitude":
			if isNull {
				columns[column] = nil
				continue
			}
			var v float64
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, errors.New(key + " must be a number")
			}
			columns[column] = v

		default:
			if isNull {
				columns[column] = nil
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, errors.New(key + " must be a string")
			}
			columns[column] = v
		}
	}

	return columns, nil
}
