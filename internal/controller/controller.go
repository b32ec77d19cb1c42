package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"facade_backend/internal/model"
	"facade_backend/internal/repository"
	"facade_backend/pkg/cache"
	"facade_backend/pkg/logger"
)

var validate = validator.New()

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func success(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// validationMessage turns the first failed validator rule into a short
// client-facing message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid input"
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " allows at most " + fe.Param() + " entries"
	default:
		return field + " is invalid"
	}
}

func buildingCacheKey(slug string) string {
	return "explore:building:" + slug
}

// buildingCache reads full buildings by slug through the cache. Cache
// failures are logged and fall back to the database.
//
// Every invalidation bumps the slug's generation. A read only writes back
// when the generation it started under is still current, so a load racing
// a mutation cannot restore the old building after the delete.
type buildingCache struct {
	buildings *repository.BuildingRepository
	cache     cache.Cache
	ttl       time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func newBuildingCache(buildings *repository.BuildingRepository, store cache.Cache, ttl time.Duration) *buildingCache {
	return &buildingCache{buildings: buildings, cache: store, ttl: ttl, gens: map[string]uint64{}}
}

func (bc *buildingCache) generation(slug string) uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.gens[slug]
}

func (bc *buildingCache) load(ctx context.Context, slug string) (*model.Building, error) {
	key := buildingCacheKey(slug)

	var cached model.Building
	hit, err := bc.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
	} else if hit {
		return &cached, nil
	}

	gen := bc.generation(slug)
	building, err := bc.buildings.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	bc.store(ctx, slug, gen, building)
	return building, nil
}

// store writes building under slug unless the slug was invalidated after
// gen was taken.
func (bc *buildingCache) store(ctx context.Context, slug string, gen uint64, building *model.Building) {
	key := buildingCacheKey(slug)

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.gens[slug] != gen {
		logger.Log.WithField("key", key).Debug("Skipping cache write for invalidated building")
		return
	}
	if err := bc.cache.Set(ctx, key, building, bc.ttl); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (bc *buildingCache) invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	bc.mu.Lock()
	for _, s := range slugs {
		if s != "" {
			bc.gens[s]++
			keys = append(keys, buildingCacheKey(s))
		}
	}
	bc.mu.Unlock()

	if err := bc.cache.Delete(ctx, keys...); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Warn("Cache invalidation failed")
	}
}

// invalidateByID drops the cached payload of the building owning a child
// record that just changed.
func (bc *buildingCache) invalidateByID(ctx context.Context, buildingID string) {
	slug, err := bc.buildings.SlugOf(ctx, buildingID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Log.WithError(err).WithField("building_id", buildingID).Warn("Could not resolve slug for cache invalidation")
		}
		return
	}
	bc.invalidate(ctx, slug)
}
