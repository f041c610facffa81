package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubbedMediaService(uploaded *string, removed *string) *MediaService {
	svc := NewMediaService(testConfig())
	svc.upload = func(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
		if uploaded != nil {
			*uploaded = key
		}
		return key, nil
	}
	svc.remove = func(_ context.Context, key string) error {
		if removed != nil {
			*removed = key
		}
		return nil
	}
	return svc
}

func TestMediaService_Upload_KeyUnderOwnerPrefix(t *testing.T) {
	profileID := uuid.New()
	var uploadedKey string
	svc := stubbedMediaService(&uploadedKey, nil)

	result, err := svc.Upload(context.Background(), MediaUploadInput{
		Requester:   policy.ForProfile(profileID),
		Filename:    "race.JPG",
		ContentType: "image/jpeg",
		Size:        1024,
		Reader:      strings.NewReader("fake image bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadedKey, profileID.String()+"/"))
	assert.True(t, strings.HasSuffix(uploadedKey, ".jpg"))
	assert.Equal(t, uploadedKey, result.Key)
}

func TestMediaService_Upload_RejectsNonImages(t *testing.T) {
	svc := stubbedMediaService(nil, nil)

	_, err := svc.Upload(context.Background(), MediaUploadInput{
		Requester:   policy.ForProfile(uuid.New()),
		Filename:    "malware.exe",
		ContentType: "application/octet-stream",
		Size:        1024,
		Reader:      strings.NewReader("nope"),
	})
	assertCode(t, err, models.CodeValidationFailed)
}

func TestMediaService_Upload_EnforcesSizeCap(t *testing.T) {
	svc := stubbedMediaService(nil, nil)

	_, err := svc.Upload(context.Background(), MediaUploadInput{
		Requester:   policy.ForProfile(uuid.New()),
		Filename:    "huge.png",
		ContentType: "image/png",
		Size:        6 << 20,
		Reader:      strings.NewReader("too big"),
	})
	assertCode(t, err, models.CodeValidationFailed)
}

func TestMediaService_Delete_OwnPrefixOnly(t *testing.T) {
	profileID := uuid.New()
	var removedKey string
	svc := stubbedMediaService(nil, &removedKey)

	err := svc.Delete(context.Background(), uuid.New().String()+"/other.png", policy.ForProfile(profileID))
	assertCode(t, err, models.CodePolicyDenied)
	assert.Empty(t, removedKey)

	ownKey := profileID.String() + "/mine.png"
	err = svc.Delete(context.Background(), ownKey, policy.ForProfile(profileID))
	require.NoError(t, err)
	assert.Equal(t, ownKey, removedKey)
}
