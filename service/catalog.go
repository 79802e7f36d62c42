package service

import (
	"log"
	"sort"
	"strings"

	"storefront-service/domain"
)

// CatalogService fetches, filters, sorts and paginates the video
// catalog. Filtering and sorting happen on a private per-call copy of
// the full set, mirroring how the storefront UI consumed the catalog.
type CatalogService struct {
	db      domain.DatabaseInterface
	storage domain.StorageInterface
}

func NewCatalogService(db domain.DatabaseInterface, storage domain.StorageInterface) *CatalogService {
	return &CatalogService{
		db:      db,
		storage: storage,
	}
}

// List returns the active catalog, searched and sorted. A blank query
// applies no filter; otherwise it is a case-insensitive substring match
// against title or description.
func (s *CatalogService) List(sortOption domain.SortOption, searchQuery string) ([]*domain.Video, error) {
	all, err := s.db.ListVideos()
	if err != nil {
		return nil, err
	}

	videos := make([]*domain.Video, 0, len(all))
	for _, video := range all {
		if !video.IsActive {
			continue
		}
		videos = append(videos, video)
	}

	query := strings.ToLower(strings.TrimSpace(searchQuery))
	if query != "" {
		filtered := videos[:0]
		for _, video := range videos {
			if strings.Contains(strings.ToLower(video.Title), query) ||
				strings.Contains(strings.ToLower(video.Description), query) {
				filtered = append(filtered, video)
			}
		}
		videos = filtered
	}

	for _, video := range videos {
		video.ThumbnailURL = s.resolveThumbnail(video)
	}

	sortVideos(videos, sortOption)
	return videos, nil
}

// ListPaged paginates over the fully filtered and sorted set. Pages are
// 1-indexed; an out-of-range page yields an empty slice, not an error.
func (s *CatalogService) ListPaged(page, perPage int, sortOption domain.SortOption, searchQuery string) ([]*domain.Video, int, error) {
	videos, err := s.List(sortOption, searchQuery)
	if err != nil {
		return nil, 0, err
	}

	if perPage < 1 {
		perPage = 12
	}
	totalPages := (len(videos) + perPage - 1) / perPage

	start := (page - 1) * perPage
	if page < 1 || start >= len(videos) {
		return []*domain.Video{}, totalPages, nil
	}
	end := start + perPage
	if end > len(videos) {
		end = len(videos)
	}
	return videos[start:end], totalPages, nil
}

func (s *CatalogService) Get(id string) (*domain.Video, error) {
	video, err := s.db.GetVideoByID(id)
	if err != nil {
		return nil, err
	}
	video.ThumbnailURL = s.resolveThumbnail(video)
	return video, nil
}

// resolveThumbnail never fails a listing: a missing reference or a
// storage error falls back to the placeholder so the video is always
// displayable.
func (s *CatalogService) resolveThumbnail(video *domain.Video) string {
	if video.ThumbnailFileID == "" {
		return domain.PlaceholderThumbnailURL
	}
	url, err := s.storage.ThumbnailURL(video.ThumbnailFileID)
	if err != nil {
		log.Printf("Error resolving thumbnail for video %s: %v", video.ID, err)
		return domain.PlaceholderThumbnailURL
	}
	return url
}

func sortVideos(videos []*domain.Video, sortOption domain.SortOption) {
	switch sortOption {
	case domain.SortPriceAsc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Price < videos[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Price > videos[j].Price })
	case domain.SortViewsDesc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Views > videos[j].Views })
	case domain.SortDurationDesc:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].Duration.Seconds() > videos[j].Duration.Seconds()
		})
	default:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	}
}
