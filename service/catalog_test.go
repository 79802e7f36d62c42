package service

import (
	"errors"
	"testing"
	"time"

	"storefront-service/domain"

	"github.com/stretchr/testify/assert"
)

func catalogFixture() []*domain.Video {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.Video{
		{ID: "v1", Title: "Alpha", Description: "first video", Price: 9.99, Views: 10, Duration: domain.Timecode("1:30"), ThumbnailFileID: "thumb-1", IsActive: true, CreatedAt: base},
		{ID: "v2", Title: "Beta", Description: "second video", Price: 4.99, Views: 50, Duration: domain.Seconds(90), IsActive: true, CreatedAt: base.Add(time.Hour)},
		{ID: "v3", Title: "Gamma", Description: "third video", Price: 19.99, Views: 5, Duration: domain.Timecode("1:05:00"), ThumbnailFileID: "thumb-3", IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "v4", Title: "Hidden", Description: "inactive", Price: 1.00, IsActive: false, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func newTestCatalog(t *testing.T, videos []*domain.Video) (*CatalogService, *MockDatabase, *MockStorage) {
	t.Helper()
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("ListVideos").Return(videos, nil)
	mockStorage.On("ThumbnailURL", "thumb-1").Return("https://cdn/thumb-1", nil)
	mockStorage.On("ThumbnailURL", "thumb-3").Return("", errors.New("storage unavailable"))
	return NewCatalogService(mockDB, mockStorage), mockDB, mockStorage
}

func TestList_MissingThumbnailGetsPlaceholder(t *testing.T) {
	catalog, _, _ := newTestCatalog(t, catalogFixture())

	videos, err := catalog.List(domain.SortNewest, "")
	assert.NoError(t, err)
	assert.Len(t, videos, 3)

	byID := map[string]*domain.Video{}
	for _, v := range videos {
		byID[v.ID] = v
	}

	// No thumbnail reference and a failing storage lookup both degrade
	// to the placeholder; the video is never dropped.
	assert.Equal(t, domain.PlaceholderThumbnailURL, byID["v2"].ThumbnailURL)
	assert.Equal(t, domain.PlaceholderThumbnailURL, byID["v3"].ThumbnailURL)
	assert.Equal(t, "https://cdn/thumb-1", byID["v1"].ThumbnailURL)
}

func TestList_ExcludesInactive(t *testing.T) {
	catalog, _, _ := newTestCatalog(t, catalogFixture())

	videos, err := catalog.List(domain.SortNewest, "")
	assert.NoError(t, err)
	for _, v := range videos {
		assert.NotEqual(t, "v4", v.ID)
	}
}

func TestList_EverySortIsAPermutation(t *testing.T) {
	catalog, _, _ := newTestCatalog(t, catalogFixture())

	baseline, err := catalog.List(domain.SortNewest, "")
	assert.NoError(t, err)
	baseIDs := map[string]bool{}
	for _, v := range baseline {
		baseIDs[v.ID] = true
	}

	for _, sortOption := range []domain.SortOption{domain.SortPriceAsc, domain.SortPriceDesc, domain.SortViewsDesc, domain.SortDurationDesc} {
		videos, err := catalog.List(sortOption, "")
		assert.NoError(t, err)
		assert.Len(t, videos, len(baseline))
		for _, v := range videos {
			assert.True(t, baseIDs[v.ID], "sort %s dropped or invented %s", sortOption, v.ID)
		}
	}
}

func TestList_SortOrders(t *testing.T) {
	catalog, _, _ := newTestCatalog(t, catalogFixture())

	byPriceAsc, _ := catalog.List(domain.SortPriceAsc, "")
	assert.Equal(t, []string{"v2", "v1", "v3"}, ids(byPriceAsc))

	byViews, _ := catalog.List(domain.SortViewsDesc, "")
	assert.Equal(t, []string{"v2", "v1", "v3"}, ids(byViews))

	// "1:05:00" (3900s) > "1:30" == 90 numeric; both 90s entries keep
	// their newest-first relative order under the stable sort.
	byDuration, _ := catalog.List(domain.SortDurationDesc, "")
	assert.Equal(t, "v3", byDuration[0].ID)

	newest, _ := catalog.List(domain.SortNewest, "")
	assert.Equal(t, []string{"v3", "v2", "v1"}, ids(newest))
}

func TestList_Search(t *testing.T) {
	catalog, _, _ := newTestCatalog(t, catalogFixture())

	videos, err := catalog.List(domain.SortNewest, "ALPHA")
	assert.NoError(t, err)
	assert.Equal(t, []string{"v1"}, ids(videos))

	videos, err = catalog.List(domain.SortNewest, "second")
	assert.NoError(t, err)
	assert.Equal(t, []string{"v2"}, ids(videos))

	videos, err = catalog.List(domain.SortNewest, "   ")
	assert.NoError(t, err)
	assert.Len(t, videos, 3)
}

func TestListPaged(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	videos := make([]*domain.Video, 0, 25)
	for i := 0; i < 25; i++ {
		videos = append(videos, &domain.Video{
			ID:        string(rune('a' + i)),
			Title:     "Video",
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("ListVideos").Return(videos, nil)
	catalog := NewCatalogService(mockDB, mockStorage)

	page1, totalPages, err := catalog.ListPaged(1, 12, domain.SortNewest, "")
	assert.NoError(t, err)
	assert.Equal(t, 3, totalPages)
	assert.Len(t, page1, 12)

	page3, _, err := catalog.ListPaged(3, 12, domain.SortNewest, "")
	assert.NoError(t, err)
	assert.Len(t, page3, 1)

	page4, totalPages, err := catalog.ListPaged(4, 12, domain.SortNewest, "")
	assert.NoError(t, err)
	assert.Equal(t, 3, totalPages)
	assert.Empty(t, page4)
}

func TestGet_NotFound(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "missing").Return(nil, domain.ErrNotFound)
	catalog := NewCatalogService(mockDB, mockStorage)

	_, err := catalog.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ids(videos []*domain.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}
