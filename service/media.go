package service

import (
	"log"

	"storefront-service/domain"
)

// MediaService resolves playback URLs and records views.
type MediaService struct {
	db      domain.DatabaseInterface
	storage domain.StorageInterface
}

func NewMediaService(db domain.DatabaseInterface, storage domain.StorageInterface) *MediaService {
	return &MediaService{
		db:      db,
		storage: storage,
	}
}

// PlaybackURL returns a time-limited URL for the video's media object.
// A video with no media reference, or a storage failure, yields an
// empty URL rather than an error: the detail page still renders, just
// without a player.
func (s *MediaService) PlaybackURL(videoID string) (string, error) {
	video, err := s.db.GetVideoByID(videoID)
	if err != nil {
		return "", err
	}
	if video.MediaFileID == "" {
		return "", nil
	}
	url, err := s.storage.MediaURL(video.MediaFileID)
	if err != nil {
		log.Printf("Error resolving media URL for video %s: %v", videoID, err)
		return "", nil
	}
	return url, nil
}

// IncrementViews bumps the view counter by one. The counter is read
// then written back, so concurrent increments can lose updates; view
// counts are informational and the simpler statement wins.
func (s *MediaService) IncrementViews(videoID string) error {
	video, err := s.db.GetVideoByID(videoID)
	if err != nil {
		return err
	}
	return s.db.SetVideoViews(videoID, video.Views+1)
}
