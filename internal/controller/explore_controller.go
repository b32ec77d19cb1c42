package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"facade_backend/internal/explore"
	"facade_backend/internal/repository"
	"facade_backend/pkg/logger"
)

// ExploreController serves the public presentation of a building.
type ExploreController struct {
	cache *buildingCache
}

func NewExploreController(bc *buildingCache) *ExploreController {
	return &ExploreController{cache: bc}
}

// buildingError answers a failed building lookup.
func buildingError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Building not found")
	}
	logger.Log.WithError(err).WithField("slug", c.Params("slug")).Error("Error fetching building")
	return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch building")
}

func (ec *ExploreController) Landing(c *fiber.Ctx) error {
	building, err := ec.cache.load(c.UserContext(), c.Params("slug"))
	if err != nil {
		return buildingError(c, err)
	}
	return c.JSON(explore.BuildLanding(building))
}

// Facade lists the markers. With width and height query parameters every
// marker also carries its pixel position in that viewport.
func (ec *ExploreController) Facade(c *fiber.Ctx) error {
	var viewport *explore.Viewport
	if c.Query("width") != "" || c.Query("height") != "" {
		viewport = &explore.Viewport{
			Width:  c.QueryFloat("width"),
			Height: c.QueryFloat("height"),
		}
		if viewport.Width <= 0 || viewport.Height <= 0 {
			return errorResponse(c, fiber.StatusBadRequest, "width and height must be positive numbers")
		}
	}

	building, err := ec.cache.load(c.UserContext(), c.Params("slug"))
	if err != nil {
		return buildingError(c, err)
	}

	facade, err := explore.BuildFacade(building, viewport)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(facade)
}

func (ec *ExploreController) Location(c *fiber.Ctx) error {
	building, err := ec.cache.load(c.UserContext(), c.Params("slug"))
	if err != nil {
		return buildingError(c, err)
	}

	detail, ok := explore.FindLocation(building, c.Params("location"))
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "Location not found")
	}
	return c.JSON(detail)
}
