package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"storefront-service/domain"
	"storefront-service/infra/metrics"
	"storefront-service/service"
	"storefront-service/siteconfig"

	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public catalog surface: listing,
// detail, playback resolution, view counting, and the public config
// projection.
type StorefrontHandler struct {
	catalog  *service.CatalogService
	media    *service.MediaService
	provider *siteconfig.Provider
}

func NewStorefrontHandler(catalog *service.CatalogService, media *service.MediaService, provider *siteconfig.Provider) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:  catalog,
		media:    media,
		provider: provider,
	}
}

type PagedVideosResponse struct {
	Videos     []*domain.Video `json:"videos"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// ListVideos returns the full filtered catalog, or one page of it when
// a page parameter is supplied.
func (h *StorefrontHandler) ListVideos(c *gin.Context) {
	sortOption := domain.SortOption(c.DefaultQuery("sort", string(domain.SortNewest)))
	search := c.Query("search")

	if pageParam := c.Query("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
			return
		}
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))

		videos, totalPages, err := h.catalog.ListPaged(page, perPage, sortOption, search)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
			return
		}
		c.JSON(http.StatusOK, PagedVideosResponse{Videos: videos, Page: page, TotalPages: totalPages})
		return
	}

	videos, err := h.catalog.List(sortOption, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *StorefrontHandler) GetVideo(c *gin.Context) {
	video, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video"})
		return
	}
	c.JSON(http.StatusOK, video)
}

// Playback resolves the media URL. An empty url in the response means
// "no playable file"; the caller shows the thumbnail only.
func (h *StorefrontHandler) Playback(c *gin.Context) {
	url, err := h.media.PlaybackURL(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve playback URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// IncrementViews is fire-and-forget: the response does not wait for the
// write, and a failed write is only logged.
func (h *StorefrontHandler) IncrementViews(c *gin.Context) {
	videoID := c.Param("id")
	go func() {
		if err := h.media.IncrementViews(videoID); err != nil {
			log.Printf("Failed to increment views for video %s: %v", videoID, err)
			return
		}
		metrics.VideoViewsTotal.Inc()
	}()
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// GetConfig exposes the public configuration projection. The card
// processor's secret key never leaves the server; the response carries
// only whether it is set.
func (h *StorefrontHandler) GetConfig(c *gin.Context) {
	config := h.provider.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"site_name":              config.SiteName,
		"video_list_title":       config.VideoListTitle,
		"paypal_client_id":       config.PayPalClientID,
		"stripe_publishable_key": config.StripePublishableKey,
		"stripe_secret_set":      config.StripeSecretKey != "",
		"telegram_username":      config.TelegramUsername,
		"crypto":                 config.CryptoWallets,
	})
}
