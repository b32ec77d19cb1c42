package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"facade_backend/internal/middleware"
	"facade_backend/internal/repository"
	"facade_backend/pkg/cache"
	"facade_backend/pkg/config"
	"facade_backend/pkg/logger"
	"facade_backend/pkg/utils/validation"
)

// Deps is everything the HTTP layer needs. Cache and Media are optional:
// a nil Cache disables caching, a nil Media leaves /api/media unmounted.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Cache
	Media  MediaStore
	// AccessLog enables the per-request log line.
	AccessLog bool
}

func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "facade",
		UnescapePath: true,
		BodyLimit:    int(validation.MaxSize(validation.KindVideo)) + 1024*1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Output: logger.Log.Writer(),
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.Server.CORSOrigins,
		AllowCredentials: deps.Config.Server.CORSOrigins != "*",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	setupRoutes(app, deps)
	return app
}

func setupRoutes(app *fiber.App, deps Deps) {
	store := deps.Cache
	if store == nil {
		store = cache.Noop{}
	}
	ttl := deps.Config.Redis.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	buildingRepo := repository.NewBuildingRepository(deps.DB)
	bc := newBuildingCache(buildingRepo, store, ttl)

	buildings := NewBuildingController(buildingRepo, bc)
	points := NewFacadePointController(repository.NewFacadePointRepository(deps.DB), buildingRepo, bc)
	amenities := NewAmenityController(repository.NewAmenityRepository(deps.DB), buildingRepo, bc)
	pages := NewExploreController(bc)

	auth := middleware.SessionGate(deps.Config.Server, deps.Config.Session)

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Reads are public: the showcase pages fetch buildings by slug.
	b := api.Group("/buildings")
	b.Get("/", buildings.List)
	b.Get("/:id", buildings.Get)
	b.Post("/", auth, buildings.Create)
	b.Patch("/:id", auth, buildings.Update)
	b.Delete("/:id", auth, buildings.Delete)

	b.Post("/:id/facade-points/locate", auth, points.Locate)
	b.Post("/:id/facade-points", auth, points.Create)
	b.Patch("/:id/facade-points/:pointId", auth, points.Update)
	b.Delete("/:id/facade-points/:pointId", auth, points.Delete)

	b.Post("/:id/amenities", auth, amenities.Create)
	b.Delete("/:id/amenities/:amenityId", auth, amenities.Delete)

	pub := api.Group("/build")
	pub.Get("/:slug", pages.Landing)
	pub.Get("/:slug/facade", pages.Facade)
	pub.Get("/:slug/location/:location", pages.Location)

	if deps.Media != nil {
		media := NewMediaController(deps.Media)
		m := api.Group("/media", auth)
		m.Post("/sign", media.Sign)
		m.Post("/sign-url", media.SignURL)
		m.Post("/upload", media.Upload)
		m.Delete("/", media.Delete)
	}
}

// errorHandler keeps fiber errors (404 for unknown routes, 413, ...) and
// hides everything else behind a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	logger.Log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
