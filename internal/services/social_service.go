package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/repository"
	log "github.com/sirupsen/logrus"
)

const SearchLimit = 15

var allowedImageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type profileSearcher interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	ListDefault(ctx context.Context, limit int) ([]models.UserProfile, error)
	SearchByPrefix(ctx context.Context, field repository.SearchField, prefix string, limit int) ([]models.UserProfile, error)
	SetAvatar(ctx context.Context, userID int64, avatarURL string) (*models.UserProfile, error)
}

type postStore interface {
	Create(ctx context.Context, userID int64, imageURL string) (*models.Post, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Post, error)
}

type feedCache interface {
	Get(ctx context.Context) ([]models.PublicProfile, bool)
	Set(ctx context.Context, profiles []models.PublicProfile)
}

type SocialService struct {
	profileRepo profileSearcher
	postRepo    postStore
	blobs       BlobStore
	feed        feedCache
	metrics     *metrics.Manager
	now         func() time.Time
}

func NewSocialService(
	profileRepo profileSearcher,
	postRepo postStore,
	blobs BlobStore,
	feed feedCache,
	metricsManager *metrics.Manager,
) *SocialService {
	return &SocialService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		blobs:       blobs,
		feed:        feed,
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// searchOrder fixes both the query order and the first-seen precedence when deduplicating.
var searchOrder = []repository.SearchField{
	repository.SearchByDisplayName,
	repository.SearchByEmail,
	repository.SearchByPhone,
}

// Search returns the default feed for a blank query; otherwise the union of three prefix matches,
// deduplicated by user id, capped at SearchLimit.
func (s *SocialService) Search(ctx context.Context, query string) ([]models.PublicProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.defaultFeed(ctx)
	}

	seen := make(map[int64]struct{})
	results := make([]models.PublicProfile, 0, SearchLimit)
	for _, field := range searchOrder {
		matches, err := s.profileRepo.SearchByPrefix(ctx, field, query, SearchLimit)
		if err != nil {
			return nil, backendError("search profiles", err)
		}
		for i := range matches {
			if _, dup := seen[matches[i].UserID]; dup {
				continue
			}
			seen[matches[i].UserID] = struct{}{}
			results = append(results, matches[i].Public())
		}
	}

	if len(results) > SearchLimit {
		results = results[:SearchLimit]
	}
	return results, nil
}

func (s *SocialService) defaultFeed(ctx context.Context) ([]models.PublicProfile, error) {
	if s.feed != nil {
		if cached, ok := s.feed.Get(ctx); ok {
			return cached, nil
		}
	}

	profiles, err := s.profileRepo.ListDefault(ctx, SearchLimit)
	if err != nil {
		return nil, backendError("list profiles", err)
	}
	results := make([]models.PublicProfile, 0, len(profiles))
	for i := range profiles {
		results = append(results, profiles[i].Public())
	}

	if s.feed != nil {
		s.feed.Set(ctx, results)
	}
	return results, nil
}

func (s *SocialService) GetProfile(ctx context.Context, userID int64) (*models.PublicProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, backendError("load profile", err)
	}
	public := profile.Public()
	return &public, nil
}

// ListPosts returns the owner's posts, newest first.
func (s *SocialService) ListPosts(ctx context.Context, ownerID int64) ([]models.Post, error) {
	posts, err := s.postRepo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, backendError("list posts", err)
	}
	return posts, nil
}

type ImageUpload struct {
	Filename string
	Content  []byte
}

func (u ImageUpload) extension() (string, error) {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !allowedImageExtensions[ext] {
		return "", models.NewValidationError("image", "image must be jpg, jpeg, png or webp")
	}
	if len(u.Content) == 0 {
		return "", models.Required("image")
	}
	return ext, nil
}

// CreatePost uploads the image then records the post. The upload is removed if the record cannot be written.
func (s *SocialService) CreatePost(ctx context.Context, ownerID int64, image ImageUpload) (*models.Post, error) {
	if s.blobs == nil {
		return nil, ErrStorageUnavailable
	}
	ext, err := image.extension()
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("posts/%d/%d%s", ownerID, s.now().UnixNano(), ext)
	imageURL, err := s.blobs.Upload(ctx, objectPath, image.Content)
	if err != nil {
		return nil, backendError("upload image", err)
	}

	post, err := s.postRepo.Create(ctx, ownerID, imageURL)
	if err != nil {
		s.cleanupUpload(ctx, imageURL)
		return nil, backendError("create post", err)
	}
	s.metrics.PostCreated()
	return post, nil
}

func (s *SocialService) UpdateAvatar(ctx context.Context, userID int64, image ImageUpload) (*models.UserProfile, error) {
	if s.blobs == nil {
		return nil, ErrStorageUnavailable
	}
	ext, err := image.extension()
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("avatars/%d/%d%s", userID, s.now().UnixNano(), ext)
	avatarURL, err := s.blobs.Upload(ctx, objectPath, image.Content)
	if err != nil {
		return nil, backendError("upload avatar", err)
	}

	profile, err := s.profileRepo.SetAvatar(ctx, userID, avatarURL)
	if err != nil {
		s.cleanupUpload(ctx, avatarURL)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, backendError("set avatar", err)
	}
	return profile, nil
}

func (s *SocialService) cleanupUpload(ctx context.Context, fileURL string) {
	if err := s.blobs.Delete(ctx, fileURL); err != nil {
		log.WithError(err).WithField("url", fileURL).Warn("failed to remove orphaned upload")
	}
}
