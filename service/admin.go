package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"storefront-service/domain"
	"storefront-service/security"
	"storefront-service/siteconfig"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminService carries every mutation the admin surface exposes: video
// and user CRUD, the site configuration record, and wallet edits. Each
// successful mutation emits an admin event on the broker, best effort.
type AdminService struct {
	db       domain.DatabaseInterface
	storage  domain.StorageInterface
	broker   domain.BrokerInterface
	provider *siteconfig.Provider
	wallets  *siteconfig.WalletRepository
}

func NewAdminService(db domain.DatabaseInterface, storage domain.StorageInterface, broker domain.BrokerInterface, provider *siteconfig.Provider, wallets *siteconfig.WalletRepository) *AdminService {
	return &AdminService{
		db:       db,
		storage:  storage,
		broker:   broker,
		provider: provider,
		wallets:  wallets,
	}
}

func (s *AdminService) Login(email, password string) (*domain.User, string, error) {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	accessToken, err := security.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

// FileUpload is one incoming file of a video mutation.
type FileUpload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// VideoInput carries the fields of a video create or update. On create
// every field including both files is mandatory; on update nil files
// mean "keep the current object".
type VideoInput struct {
	Title       string
	Description string
	Price       float64
	Duration    domain.Duration
	ProductLink string
	IsActive    bool

	Media     *FileUpload
	Thumbnail *FileUpload
}

func (in *VideoInput) validate(requireFiles bool) error {
	if in.Title == "" || in.Description == "" {
		return fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if requireFiles {
		if in.Media == nil || in.Thumbnail == nil {
			return fmt.Errorf("%w: video file and thumbnail are required", domain.ErrValidation)
		}
		if in.ProductLink == "" {
			return fmt.Errorf("%w: product link is required", domain.ErrValidation)
		}
		if in.Duration.IsZero() {
			return fmt.Errorf("%w: duration is required", domain.ErrValidation)
		}
	}
	return nil
}

func objectFilename(videoID, originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s_%s%s", time.Now().Format("20060102_150405"), videoID, ext)
}

// CreateVideo uploads both files first and only then writes the
// metadata record, so a half-created video never points at objects that
// do not exist. A failed metadata insert removes the fresh uploads.
func (s *AdminService) CreateVideo(input VideoInput) (*domain.Video, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	videoID := uuid.New().String()

	thumbPath, err := s.storage.UploadThumbnail(input.Thumbnail.Reader, objectFilename(videoID, input.Thumbnail.Filename), input.Thumbnail.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	mediaPath, err := s.storage.UploadMedia(input.Media.Reader, objectFilename(videoID, input.Media.Filename), input.Media.Size)
	if err != nil {
		s.storage.DeleteThumbnail(thumbPath)
		return nil, fmt.Errorf("failed to upload video file: %w", err)
	}

	video := &domain.Video{
		ID:              videoID,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		Duration:        input.Duration,
		ProductLink:     input.ProductLink,
		IsActive:        input.IsActive,
		MediaFileID:     mediaPath,
		ThumbnailFileID: thumbPath,
		CreatedAt:       time.Now(),
	}

	if err := s.db.CreateVideo(video); err != nil {
		s.storage.DeleteMedia(mediaPath)
		s.storage.DeleteThumbnail(thumbPath)
		return nil, fmt.Errorf("failed to create video record: %w", err)
	}

	s.publishAdmin("video.create", "video", videoID)
	return video, nil
}

// UpdateVideo replaces metadata and, when new files arrive, the stored
// objects. The new object is uploaded before the old one is removed;
// removal of the old object is best effort and never fails the update.
func (s *AdminService) UpdateVideo(id string, input VideoInput) (*domain.Video, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	video, err := s.db.GetVideoByID(id)
	if err != nil {
		return nil, err
	}

	oldMedia := ""
	oldThumb := ""

	if input.Media != nil {
		mediaPath, err := s.storage.UploadMedia(input.Media.Reader, objectFilename(id, input.Media.Filename), input.Media.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload video file: %w", err)
		}
		oldMedia = video.MediaFileID
		video.MediaFileID = mediaPath
	}

	if input.Thumbnail != nil {
		thumbPath, err := s.storage.UploadThumbnail(input.Thumbnail.Reader, objectFilename(id, input.Thumbnail.Filename), input.Thumbnail.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		oldThumb = video.ThumbnailFileID
		video.ThumbnailFileID = thumbPath
	}

	video.Title = input.Title
	video.Description = input.Description
	video.Price = input.Price
	video.ProductLink = input.ProductLink
	video.IsActive = input.IsActive
	if !input.Duration.IsZero() {
		video.Duration = input.Duration
	}

	if err := s.db.UpdateVideo(video); err != nil {
		return nil, fmt.Errorf("failed to update video record: %w", err)
	}

	if oldMedia != "" {
		if err := s.storage.DeleteMedia(oldMedia); err != nil {
			log.Printf("Failed to delete replaced media object %s: %v", oldMedia, err)
		}
	}
	if oldThumb != "" {
		if err := s.storage.DeleteThumbnail(oldThumb); err != nil {
			log.Printf("Failed to delete replaced thumbnail object %s: %v", oldThumb, err)
		}
	}

	s.publishAdmin("video.update", "video", id)
	return video, nil
}

// DeleteVideo removes the stored objects and the metadata record. The
// two object deletions are independent: one failing does not stop the
// other, and neither blocks removing the record.
func (s *AdminService) DeleteVideo(id string) error {
	video, err := s.db.GetVideoByID(id)
	if err != nil {
		return err
	}

	if video.MediaFileID != "" {
		if err := s.storage.DeleteMedia(video.MediaFileID); err != nil {
			log.Printf("Failed to delete media object %s: %v", video.MediaFileID, err)
		}
	}
	if video.ThumbnailFileID != "" {
		if err := s.storage.DeleteThumbnail(video.ThumbnailFileID); err != nil {
			log.Printf("Failed to delete thumbnail object %s: %v", video.ThumbnailFileID, err)
		}
	}

	if err := s.db.DeleteVideo(id); err != nil {
		return err
	}

	s.publishAdmin("video.delete", "video", id)
	return nil
}

func (s *AdminService) ListUsers() ([]domain.User, error) {
	return s.db.ListUsers()
}

func (s *AdminService) CreateUser(name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	existing, err := s.db.GetUserByEmail(email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := s.db.CreateUser(user); err != nil {
		return nil, err
	}

	s.publishAdmin("user.create", "user", user.ID)
	return user, nil
}

// UpdateUser changes name and email, and the password only when a new
// one is provided.
func (s *AdminService) UpdateUser(id, name, email, password string) (*domain.User, error) {
	user, err := s.db.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		existing, err := s.db.GetUserByEmail(email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.db.UpdateUser(user); err != nil {
		return nil, err
	}

	s.publishAdmin("user.update", "user", id)
	return user, nil
}

func (s *AdminService) DeleteUser(id string) error {
	if err := s.db.DeleteUser(id); err != nil {
		return err
	}
	s.publishAdmin("user.delete", "user", id)
	return nil
}

// SaveSiteConfig writes the singleton record, creating it on first
// save, then republishes the snapshot so every consumer sees the new
// values without a restart.
func (s *AdminService) SaveSiteConfig(input domain.SiteConfig) (*domain.SiteConfig, error) {
	if err := domain.ValidateWalletList(input.CryptoWallets); err != nil {
		return nil, err
	}

	config, err := s.db.GetSiteConfig()
	if errors.Is(err, domain.ErrNotFound) {
		input.ID = uuid.New().String()
		if input.CryptoWallets == nil {
			input.CryptoWallets = []string{}
		}
		if err := s.db.CreateSiteConfig(&input); err != nil {
			return nil, err
		}
		config = &input
	} else if err != nil {
		return nil, err
	} else {
		config.SiteName = input.SiteName
		config.VideoListTitle = input.VideoListTitle
		config.PayPalClientID = input.PayPalClientID
		config.StripePublishableKey = input.StripePublishableKey
		config.TelegramUsername = input.TelegramUsername
		// An empty secret on input means "keep the stored secret": the
		// admin form never echoes it back.
		if input.StripeSecretKey != "" {
			config.StripeSecretKey = input.StripeSecretKey
		}
		if input.CryptoWallets != nil {
			config.CryptoWallets = input.CryptoWallets
		}
		if err := s.db.UpdateSiteConfig(config); err != nil {
			return nil, err
		}
	}

	if err := s.provider.Refresh(); err != nil {
		log.Printf("Failed to refresh site config after save: %v", err)
	}

	s.publishAdmin("config.save", "site_config", config.ID)
	return config, nil
}

func (s *AdminService) AddWallet(wallet domain.Wallet) ([]string, error) {
	entries, err := s.wallets.Add(wallet)
	if err != nil {
		return nil, err
	}
	s.publishAdmin("wallet.add", "site_config", wallet.Code)
	return entries, nil
}

func (s *AdminService) RemoveWallet(index int) ([]string, error) {
	entries, err := s.wallets.Remove(index)
	if err != nil {
		return nil, err
	}
	s.publishAdmin("wallet.remove", "site_config", fmt.Sprintf("%d", index))
	return entries, nil
}

func (s *AdminService) publishAdmin(action, entityType, entityID string) {
	if s.broker == nil {
		return
	}
	event := domain.AdminEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: time.Now().Format(time.RFC3339),
	}
	go func() {
		if err := s.broker.PublishAdminAction(event); err != nil {
			log.Printf("Failed to publish admin event %s: %v", action, err)
		}
	}()
}
