package controller

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"facade_backend/pkg/logger"
	"facade_backend/pkg/utils/cloudflare"
	"facade_backend/pkg/utils/image"
	"facade_backend/pkg/utils/validation"
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = time.Hour
)

// MediaStore is the object storage behind building media. *cloudflare.R2
// implements it.
type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(fullURL string) (string, bool)
}

type SignInput struct {
	Kind        string `json:"kind"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Building    string `json:"building"`
}

// ObjectInput names a stored object by its public URL or its key.
type ObjectInput struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type MediaController struct {
	store MediaStore
}

func NewMediaController(store MediaStore) *MediaController {
	return &MediaController{store: store}
}

// Sign hands out a presigned PUT so the browser uploads straight to the
// bucket. The returned public URL is what gets stored on the record.
func (mc *MediaController) Sign(c *fiber.Ctx) error {
	input := new(SignInput)
	if err := c.BodyParser(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, validationMessage(err))
	}

	kind, err := validation.ParseKind(input.Kind)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validation.ValidateContentType(kind, input.Filename, input.ContentType); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	key := cloudflare.ObjectKey(input.Building, string(kind), input.Filename)
	uploadURL, err := mc.store.PresignUpload(c.UserContext(), key, input.ContentType, uploadURLTTL)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Error signing upload")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to sign upload")
	}

	return c.JSON(fiber.Map{
		"uploadUrl": uploadURL,
		"key":       key,
		"publicUrl": mc.store.PublicURL(key),
		"expiresIn": int(uploadURLTTL.Seconds()),
	})
}

// SignURL returns a time-limited download link for a stored object, used
// for brochures kept out of public listing.
func (mc *MediaController) SignURL(c *fiber.Ctx) error {
	key, ok := mc.objectKey(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "A media url or key is required")
	}

	signedURL, err := mc.store.PresignDownload(c.UserContext(), key, downloadURLTTL)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Error generating signed URL")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate signed URL")
	}

	return c.JSON(fiber.Map{
		"signedUrl": signedURL,
		"expiresIn": int(downloadURLTTL.Seconds()),
	})
}

// Upload stores a multipart file server side. Images are decoded and
// re-encoded before they reach the bucket.
func (mc *MediaController) Upload(c *fiber.Ctx) error {
	kind, err := validation.ParseKind(c.FormValue("kind"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, validation.ErrFileRequired.Error())
	}

	contentType := file.Header.Get("Content-Type")
	if err := validation.ValidateFile(kind, file.Filename, contentType, file.Size); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	src, err := file.Open()
	if err != nil {
		logger.Log.WithError(err).Error("Error opening uploaded file")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}
	defer src.Close()

	var body io.Reader = src
	if kind == validation.KindImage {
		processed, processedType, err := image.Process(src)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Could not process image")
		}
		body = processed
		contentType = processedType
	}

	key := cloudflare.ObjectKey(c.FormValue("building"), string(kind), file.Filename)
	url, err := mc.store.Upload(c.UserContext(), key, body, contentType)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Error uploading file")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	logger.Log.WithFields(logrus.Fields{"key": key, "kind": kind, "size": file.Size}).Info("Media uploaded")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
		"key": key,
	})
}

// Delete removes an object that a record no longer references.
func (mc *MediaController) Delete(c *fiber.Ctx) error {
	key, ok := mc.objectKey(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "A media url or key is required")
	}

	if err := mc.store.Delete(c.UserContext(), key); err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Error deleting file")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete file")
	}
	return success(c)
}

// objectKey reads an ObjectInput body. URLs outside the bucket are refused.
func (mc *MediaController) objectKey(c *fiber.Ctx) (string, bool) {
	input := new(ObjectInput)
	if err := c.BodyParser(input); err != nil {
		return "", false
	}
	if key := strings.TrimPrefix(strings.TrimSpace(input.Key), "/"); key != "" {
		return key, true
	}
	if u := strings.TrimSpace(input.URL); u != "" {
		return mc.store.KeyFromURL(u)
	}
	return "", false
}
