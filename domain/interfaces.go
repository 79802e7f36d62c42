package domain

import (
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
)

type DatabaseInterface interface {
	ListVideos() ([]*Video, error)
	GetVideoByID(id string) (*Video, error)
	CreateVideo(video *Video) error
	UpdateVideo(video *Video) error
	DeleteVideo(id string) error
	SetVideoViews(id string, views int) error

	ListUsers() ([]User, error)
	GetUserByID(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	CreateUser(user *User) error
	UpdateUser(user *User) error
	DeleteUser(id string) error

	GetSiteConfig() (*SiteConfig, error)
	CreateSiteConfig(config *SiteConfig) error
	UpdateSiteConfig(config *SiteConfig) error

	Ping() error
	Close() error
}

type StorageInterface interface {
	UploadMedia(reader io.Reader, filename string, size int64) (string, error)
	UploadThumbnail(reader io.Reader, filename string, size int64) (string, error)
	MediaURL(objectName string) (string, error)
	ThumbnailURL(objectName string) (string, error)
	DeleteMedia(objectName string) error
	DeleteThumbnail(objectName string) error
}

// CacheInterface is the client-local tier: the wallet fallback cache and
// the read-once "just purchased" marker.
type CacheInterface interface {
	FallbackWallets() ([]string, error)
	SetFallbackWallets(entries []string) error
	ClearFallbackWallets() error

	SetPurchaseMarker(sessionID, videoID string) error
	ConsumePurchaseMarker(sessionID, videoID string) (bool, error)
}

type BrokerInterface interface {
	PublishPurchase(event PurchaseEvent) error
	PublishAdminAction(event AdminEvent) error
	SubscribeEvents() (<-chan amqp.Delivery, error)
	Ping() error
	Close() error
}

type SMTPInterface interface {
	SendEmail(to, subject, htmlBody string) error
}

type PayPalInterface interface {
	CreateOrder(description, value string) (string, error)
	CaptureOrder(orderID string) error
}
