package domain

import "time"

// PlaceholderThumbnailURL is substituted whenever a thumbnail cannot be
// resolved, so a video is always displayable.
const PlaceholderThumbnailURL = "https://via.placeholder.com/300x180?text=Video+Thumbnail"

type Video struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Duration    Duration  `json:"duration" db:"duration"`
	Views       int       `json:"views" db:"views"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Canonical file references. The database adapter folds the legacy
	// column pair (video_file_id / thumbnail_file_id) into these, so an
	// empty string always means "no file".
	MediaFileID     string `json:"media_file_id,omitempty" db:"video_id"`
	ThumbnailFileID string `json:"thumbnail_file_id,omitempty" db:"thumbnail_id"`

	ProductLink string `json:"product_link,omitempty" db:"product_link"`
	IsActive    bool   `json:"is_active" db:"is_active"`

	// Resolved at read time, never persisted.
	ThumbnailURL string `json:"thumbnail_url,omitempty" db:"-"`
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SiteConfig is the singleton record governing storefront behavior.
// At most one row exists; zero rows means every consumer falls back to
// the defaults below.
type SiteConfig struct {
	ID                   string   `json:"id" db:"id"`
	SiteName             string   `json:"site_name" db:"site_name"`
	VideoListTitle       string   `json:"video_list_title" db:"video_list_title"`
	PayPalClientID       string   `json:"paypal_client_id" db:"paypal_client_id"`
	StripePublishableKey string   `json:"stripe_publishable_key" db:"stripe_publishable_key"`
	StripeSecretKey      string   `json:"stripe_secret_key,omitempty" db:"stripe_secret_key"`
	TelegramUsername     string   `json:"telegram_username" db:"telegram_username"`
	CryptoWallets        []string `json:"crypto" db:"crypto"`
}

const (
	DefaultSiteName       = "VideosPlus"
	DefaultVideoListTitle = "Available Videos"
)

// DefaultSiteConfig is what consumers see when the backing store has no
// config document yet.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		SiteName:       DefaultSiteName,
		VideoListTitle: DefaultVideoListTitle,
		CryptoWallets:  []string{},
	}
}

type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortPriceAsc     SortOption = "price_asc"
	SortPriceDesc    SortOption = "price_desc"
	SortViewsDesc    SortOption = "views_desc"
	SortDurationDesc SortOption = "duration_desc"
)

type PaymentPath string

const (
	PathCard   PaymentPath = "card"
	PathPayPal PaymentPath = "paypal"
	PathCrypto PaymentPath = "crypto"
	PathManual PaymentPath = "manual-contact"
)

// AccessArtifact is what a buyer sees once a purchase is revealed: the
// product link when one exists, otherwise instructions to use the manual
// contact channel. The absence of a link is not an error state.
type AccessArtifact struct {
	ProductLink   string `json:"product_link,omitempty"`
	ManualNotice  string `json:"manual_notice,omitempty"`
	ContactHandle string `json:"contact_handle,omitempty"`
}

type PurchaseEvent struct {
	VideoID    string  `json:"video_id"`
	VideoTitle string  `json:"video_title"`
	Path       string  `json:"path"`
	Price      float64 `json:"price"`
	OccurredAt string  `json:"occurred_at"`
}

type AdminEvent struct {
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}
