package handlers

import (
	"context"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

const maxImageSizeBytes = 5 * 1024 * 1024

type socialService interface {
	Search(ctx context.Context, query string) ([]models.PublicProfile, error)
	GetProfile(ctx context.Context, userID int64) (*models.PublicProfile, error)
	ListPosts(ctx context.Context, ownerID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, ownerID int64, image services.ImageUpload) (*models.Post, error)
	UpdateAvatar(ctx context.Context, userID int64, image services.ImageUpload) (*models.UserProfile, error)
}

type SocialHandler struct {
	service socialService
}

func NewSocialHandler(service socialService) *SocialHandler {
	return &SocialHandler{service: service}
}

func (h *SocialHandler) Search(c *fiber.Ctx) error {
	profiles, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"results": profiles})
}

func parseProfileID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *SocialHandler) GetProfile(c *fiber.Ctx) error {
	id, ok := parseProfileID(c)
	if !ok {
		return badRequest(c, "id must be a positive integer")
	}
	profile, err := h.service.GetProfile(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(profile)
}

func (h *SocialHandler) ListPosts(c *fiber.Ctx) error {
	id, ok := parseProfileID(c)
	if !ok {
		return badRequest(c, "id must be a positive integer")
	}
	posts, err := h.service.ListPosts(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *SocialHandler) CreatePost(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	upload, uploadErr := readImage(c, "image")
	if uploadErr != nil {
		return respondFiberError(c, uploadErr)
	}

	post, err := h.service.CreatePost(c.UserContext(), userID, upload)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *SocialHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	upload, uploadErr := readImage(c, "avatar")
	if uploadErr != nil {
		return respondFiberError(c, uploadErr)
	}

	profile, err := h.service.UpdateAvatar(c.UserContext(), userID, upload)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(profile)
}

// readImage pulls a size-checked multipart file.
func readImage(c *fiber.Ctx, field string) (services.ImageUpload, *fiber.Error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return services.ImageUpload{}, fiber.NewError(fiber.StatusBadRequest, field+" file is required")
	}
	if fileHeader.Size <= 0 {
		return services.ImageUpload{}, fiber.NewError(fiber.StatusBadRequest, field+" file is empty")
	}
	if fileHeader.Size > maxImageSizeBytes {
		return services.ImageUpload{}, fiber.NewError(fiber.StatusBadRequest, field+" file exceeds 5MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return services.ImageUpload{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to open "+field+" file")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImageSizeBytes+1))
	if err != nil {
		return services.ImageUpload{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to read "+field+" file")
	}
	return services.ImageUpload{Filename: fileHeader.Filename, Content: content}, nil
}

func respondFiberError(c *fiber.Ctx, e *fiber.Error) error {
	return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
}
