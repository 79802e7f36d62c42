package service

import (
	"errors"
	"testing"

	"storefront-service/domain"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackURL(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1", MediaFileID: "media-1"}, nil)
	mockStorage.On("MediaURL", "media-1").Return("https://cdn/media-1", nil)

	media := NewMediaService(mockDB, mockStorage)

	url, err := media.PlaybackURL("v1")
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn/media-1", url)
}

func TestPlaybackURL_AbsentReference(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1"}, nil)

	media := NewMediaService(mockDB, mockStorage)

	url, err := media.PlaybackURL("v1")
	assert.NoError(t, err)
	assert.Empty(t, url)
	mockStorage.AssertNotCalled(t, "MediaURL")
}

func TestPlaybackURL_StorageFailureIsAbsentNotError(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1", MediaFileID: "media-1"}, nil)
	mockStorage.On("MediaURL", "media-1").Return("", errors.New("storage unavailable"))

	media := NewMediaService(mockDB, mockStorage)

	url, err := media.PlaybackURL("v1")
	assert.NoError(t, err)
	assert.Empty(t, url)
}

func TestPlaybackURL_VideoNotFound(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "missing").Return(nil, domain.ErrNotFound)

	media := NewMediaService(mockDB, mockStorage)

	_, err := media.PlaybackURL("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Two sequential increments are two full read-modify-write round trips
// and land at initial+2.
func TestIncrementViews_TwiceSequentially(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)

	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1", Views: 10}, nil).Once()
	mockDB.On("SetVideoViews", "v1", 11).Return(nil).Once()
	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1", Views: 11}, nil).Once()
	mockDB.On("SetVideoViews", "v1", 12).Return(nil).Once()

	media := NewMediaService(mockDB, mockStorage)

	assert.NoError(t, media.IncrementViews("v1"))
	assert.NoError(t, media.IncrementViews("v1"))
	mockDB.AssertExpectations(t)
}
