package service

import (
	"context"
	"io"
	"path"
	"strings"

	"athlos/internal/config"
	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/storage"

	"github.com/google/uuid"
)

// MediaService handles media uploads into per-owner storage prefixes.
type MediaService struct {
	cfg *config.Config

	// Indirection over the storage package so tests can stub object I/O.
	upload func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	remove func(ctx context.Context, key string) error
}

// MediaUploadInput carries one upload.
type MediaUploadInput struct {
	Requester   policy.Requester
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MediaUploadResult is returned to the caller after a successful upload.
type MediaUploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NewMediaService creates a new media service.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{
		cfg:    cfg,
		upload: storage.Upload,
		remove: storage.Delete,
	}
}

// Upload stores an image under the requester's prefix. Only image content
// types are accepted and the size cap is enforced before any bytes move.
func (s *MediaService) Upload(ctx context.Context, in MediaUploadInput) (*MediaUploadResult, error) {
	if !in.Requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, models.NewValidationError("Only image uploads are supported")
	}
	maxBytes := int64(s.cfg.MediaMaxUploadSizeMB) << 20
	if in.Size <= 0 || in.Size > maxBytes {
		return nil, models.NewValidationError("Upload exceeds the size limit")
	}

	ext := strings.ToLower(path.Ext(in.Filename))
	key := storage.ObjectKey(in.Requester.ProfileID.String(), uuid.NewString()+ext)

	storedKey, err := s.upload(ctx, key, in.Reader, in.Size, in.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &MediaUploadResult{
		Key:         storedKey,
		URL:         storage.PublicURL(storedKey),
		ContentType: in.ContentType,
		Size:        in.Size,
	}, nil
}

// Delete removes an object, but only from the requester's own prefix. The
// owner check is on the key itself, so no lookup can be confused into
// deleting another profile's media.
func (s *MediaService) Delete(ctx context.Context, key string, requester policy.Requester) error {
	if !requester.Authenticated {
		return models.NewPolicyDeniedError("Authentication required")
	}
	if storage.OwnerOfKey(key) != requester.ProfileID.String() {
		return models.NewPolicyDeniedError("You can only delete your own media")
	}
	if err := s.remove(ctx, key); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
