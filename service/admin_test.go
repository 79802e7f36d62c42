package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"storefront-service/domain"
	"storefront-service/purchase"
	"storefront-service/siteconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func uploadFixture(name string) *FileUpload {
	return &FileUpload{Reader: strings.NewReader("data"), Filename: name, Size: 4}
}

func TestCreateVideo_RequiresAllFields(t *testing.T) {
	admin := NewAdminService(new(MockDatabase), new(MockStorage), nil, nil, nil)

	_, err := admin.CreateVideo(VideoInput{Title: "Only title", Description: "d", Price: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = admin.CreateVideo(VideoInput{Description: "no title", Media: uploadFixture("v.mp4"), Thumbnail: uploadFixture("t.jpg")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateVideo_RequiresProductLinkAndDuration(t *testing.T) {
	mockStorage := new(MockStorage)
	admin := NewAdminService(new(MockDatabase), mockStorage, nil, nil, nil)

	base := VideoInput{
		Title:       "New",
		Description: "desc",
		Price:       9.99,
		Media:       uploadFixture("v.mp4"),
		Thumbnail:   uploadFixture("t.jpg"),
	}

	noLink := base
	noLink.Duration = domain.Timecode("1:30")
	_, err := admin.CreateVideo(noLink)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noDuration := base
	noDuration.ProductLink = "https://x/y"
	_, err = admin.CreateVideo(noDuration)
	assert.ErrorIs(t, err, domain.ErrValidation)

	mockStorage.AssertNotCalled(t, "UploadThumbnail", mock.Anything, mock.Anything, mock.Anything)
	mockStorage.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateVideo_UploadsBeforeMetadata(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockStorage.On("UploadThumbnail", mock.Anything, mock.Anything, int64(4)).Return("thumbs/t.jpg", nil)
	mockStorage.On("UploadMedia", mock.Anything, mock.Anything, int64(4)).Return("media/v.mp4", nil)
	mockDB.On("CreateVideo", mock.MatchedBy(func(v *domain.Video) bool {
		return v.MediaFileID == "media/v.mp4" && v.ThumbnailFileID == "thumbs/t.jpg"
	})).Return(nil)

	admin := NewAdminService(mockDB, mockStorage, nil, nil, nil)

	video, err := admin.CreateVideo(VideoInput{
		Title:       "New",
		Description: "desc",
		Price:       9.99,
		Duration:    domain.Timecode("1:30"),
		ProductLink: "https://x/y",
		IsActive:    true,
		Media:       uploadFixture("v.mp4"),
		Thumbnail:   uploadFixture("t.jpg"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "media/v.mp4", video.MediaFileID)
	mockDB.AssertExpectations(t)
}

func TestCreateVideo_MetadataFailureCleansUpUploads(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockStorage.On("UploadThumbnail", mock.Anything, mock.Anything, int64(4)).Return("thumbs/t.jpg", nil)
	mockStorage.On("UploadMedia", mock.Anything, mock.Anything, int64(4)).Return("media/v.mp4", nil)
	mockStorage.On("DeleteMedia", "media/v.mp4").Return(nil)
	mockStorage.On("DeleteThumbnail", "thumbs/t.jpg").Return(nil)
	mockDB.On("CreateVideo", mock.Anything).Return(errors.New("insert failed"))

	admin := NewAdminService(mockDB, mockStorage, nil, nil, nil)

	_, err := admin.CreateVideo(VideoInput{
		Title:       "New",
		Description: "desc",
		Price:       9.99,
		Duration:    domain.Timecode("1:30"),
		ProductLink: "https://x/y",
		Media:       uploadFixture("v.mp4"),
		Thumbnail:   uploadFixture("t.jpg"),
	})
	assert.Error(t, err)
	mockStorage.AssertCalled(t, "DeleteMedia", "media/v.mp4")
	mockStorage.AssertCalled(t, "DeleteThumbnail", "thumbs/t.jpg")
}

func TestUpdateVideo_ReplacingFileDeletesOldBestEffort(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	existing := &domain.Video{ID: "v1", Title: "Old", Description: "old", MediaFileID: "media/old.mp4", ThumbnailFileID: "thumbs/old.jpg"}
	mockDB.On("GetVideoByID", "v1").Return(existing, nil)
	mockStorage.On("UploadMedia", mock.Anything, mock.Anything, int64(4)).Return("media/new.mp4", nil)
	mockDB.On("UpdateVideo", mock.MatchedBy(func(v *domain.Video) bool {
		return v.MediaFileID == "media/new.mp4"
	})).Return(nil)
	// Old-object deletion fails; the update still completes.
	mockStorage.On("DeleteMedia", "media/old.mp4").Return(errors.New("object locked"))

	admin := NewAdminService(mockDB, mockStorage, nil, nil, nil)

	video, err := admin.UpdateVideo("v1", VideoInput{
		Title:       "New title",
		Description: "new desc",
		Price:       5,
		Media:       uploadFixture("new.mp4"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "media/new.mp4", video.MediaFileID)
	assert.Equal(t, "thumbs/old.jpg", video.ThumbnailFileID)
	mockDB.AssertExpectations(t)
}

func TestUpdateVideo_KeepsDurationWhenOmitted(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	existing := &domain.Video{ID: "v1", Title: "Old", Description: "old", Duration: domain.Timecode("2:00")}
	mockDB.On("GetVideoByID", "v1").Return(existing, nil)
	mockDB.On("UpdateVideo", mock.Anything).Return(nil)

	admin := NewAdminService(mockDB, mockStorage, nil, nil, nil)

	video, err := admin.UpdateVideo("v1", VideoInput{Title: "New", Description: "new", Price: 1})
	assert.NoError(t, err)
	assert.Equal(t, 120, video.Duration.Seconds())
}

func TestDeleteVideo_StorageFailuresAreIndependent(t *testing.T) {
	mockDB := new(MockDatabase)
	mockStorage := new(MockStorage)
	mockDB.On("GetVideoByID", "v1").Return(&domain.Video{ID: "v1", MediaFileID: "m", ThumbnailFileID: "t"}, nil)
	mockStorage.On("DeleteMedia", "m").Return(errors.New("unavailable"))
	mockStorage.On("DeleteThumbnail", "t").Return(nil)
	mockDB.On("DeleteVideo", "v1").Return(nil)

	admin := NewAdminService(mockDB, mockStorage, nil, nil, nil)

	assert.NoError(t, admin.DeleteVideo("v1"))
	mockStorage.AssertCalled(t, "DeleteThumbnail", "t")
	mockDB.AssertCalled(t, "DeleteVideo", "v1")
}

func TestCreateUser_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	mockDB := new(MockDatabase)
	mockDB.On("GetUserByEmail", "new@x.com").Return(nil, domain.ErrNotFound)
	mockDB.On("CreateUser", mock.MatchedBy(func(u *domain.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")) == nil
	})).Return(nil)

	admin := NewAdminService(mockDB, new(MockStorage), nil, nil, nil)

	user, err := admin.CreateUser("New", "new@x.com", "secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)

	mockDB.On("GetUserByEmail", "taken@x.com").Return(&domain.User{ID: "u1", Email: "taken@x.com"}, nil)
	_, err = admin.CreateUser("Other", "taken@x.com", "secret")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestCreateUser_StoreFailureIsNotEmailFree(t *testing.T) {
	mockDB := new(MockDatabase)
	mockDB.On("GetUserByEmail", "new@x.com").Return(nil, errors.New("connection refused"))

	admin := NewAdminService(mockDB, new(MockStorage), nil, nil, nil)

	_, err := admin.CreateUser("New", "new@x.com", "secret")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserAlreadyExists)
	mockDB.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestUpdateUser_StoreFailureBlocksEmailChange(t *testing.T) {
	mockDB := new(MockDatabase)
	mockDB.On("GetUserByID", "u1").Return(&domain.User{ID: "u1", Email: "old@x.com"}, nil)
	mockDB.On("GetUserByEmail", "new@x.com").Return(nil, errors.New("connection refused"))

	admin := NewAdminService(mockDB, new(MockStorage), nil, nil, nil)

	_, err := admin.UpdateUser("u1", "", "new@x.com", "")
	assert.Error(t, err)
	mockDB.AssertNotCalled(t, "UpdateUser", mock.Anything)
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	mockDB := new(MockDatabase)
	mockDB.On("GetUserByEmail", "admin@x.com").Return(&domain.User{ID: "u1", Email: "admin@x.com", PasswordHash: string(hash)}, nil)

	admin := NewAdminService(mockDB, new(MockStorage), nil, nil, nil)

	user, token, err := admin.Login("admin@x.com", "secret")
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, token)

	_, _, err = admin.Login("admin@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSaveSiteConfig_LazyCreateAndRefresh(t *testing.T) {
	mockDB := new(MockDatabase)
	markerStore := purchase.NewMemoryMarkerStore()

	mockDB.On("GetSiteConfig").Return(nil, domain.ErrNotFound).Twice()
	mockDB.On("CreateSiteConfig", mock.MatchedBy(func(c *domain.SiteConfig) bool {
		return c.ID != "" && c.SiteName == "My Store"
	})).Return(nil)
	created := &domain.SiteConfig{ID: "cfg-1", SiteName: "My Store", CryptoWallets: []string{}}
	mockDB.On("GetSiteConfig").Return(created, nil)

	provider := siteconfig.NewProvider(mockDB, markerStore)
	admin := NewAdminService(mockDB, new(MockStorage), nil, provider, siteconfig.NewWalletRepository(mockDB, markerStore, provider))

	config, err := admin.SaveSiteConfig(domain.SiteConfig{SiteName: "My Store"})
	assert.NoError(t, err)
	assert.NotEmpty(t, config.ID)
	assert.Equal(t, "My Store", provider.SiteName())
}

func TestSaveSiteConfig_EmptySecretKeepsStored(t *testing.T) {
	mockDB := new(MockDatabase)
	markerStore := purchase.NewMemoryMarkerStore()

	stored := &domain.SiteConfig{ID: "cfg-1", SiteName: "Store", StripeSecretKey: "sk_live_stored", CryptoWallets: []string{}}
	mockDB.On("GetSiteConfig").Return(stored, nil)
	mockDB.On("UpdateSiteConfig", mock.MatchedBy(func(c *domain.SiteConfig) bool {
		return c.StripeSecretKey == "sk_live_stored"
	})).Return(nil)

	provider := siteconfig.NewProvider(mockDB, markerStore)
	admin := NewAdminService(mockDB, new(MockStorage), nil, provider, siteconfig.NewWalletRepository(mockDB, markerStore, provider))

	_, err := admin.SaveSiteConfig(domain.SiteConfig{ID: "cfg-1", SiteName: "Store", StripeSecretKey: ""})
	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestSaveSiteConfig_RejectsOversizedOrDuplicateWallets(t *testing.T) {
	mockDB := new(MockDatabase)
	admin := NewAdminService(mockDB, new(MockStorage), nil, nil, nil)

	tooMany := make([]string, domain.MaxCryptoWallets+1)
	for i := range tooMany {
		tooMany[i] = domain.Wallet{Code: fmt.Sprintf("C%d", i), Address: "addr"}.Encode()
	}
	_, err := admin.SaveSiteConfig(domain.SiteConfig{SiteName: "Store", CryptoWallets: tooMany})
	assert.ErrorIs(t, err, domain.ErrValidation)

	duplicated := []string{
		domain.Wallet{Code: "BTC", Address: "bc1qone"}.Encode(),
		domain.Wallet{Code: "BTC", Address: "bc1qtwo"}.Encode(),
	}
	_, err = admin.SaveSiteConfig(domain.SiteConfig{SiteName: "Store", CryptoWallets: duplicated})
	assert.ErrorIs(t, err, domain.ErrValidation)

	mockDB.AssertNotCalled(t, "GetSiteConfig")
	mockDB.AssertNotCalled(t, "UpdateSiteConfig", mock.Anything)
}
