package service

import (
	"io"

	"storefront-service/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) ListVideos() ([]*domain.Video, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Video), args.Error(1)
}

func (m *MockDatabase) GetVideoByID(id string) (*domain.Video, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockDatabase) CreateVideo(video *domain.Video) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *MockDatabase) UpdateVideo(video *domain.Video) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *MockDatabase) DeleteVideo(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDatabase) SetVideoViews(id string, views int) error {
	args := m.Called(id, views)
	return args.Error(0)
}

func (m *MockDatabase) ListUsers() ([]domain.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockDatabase) GetUserByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDatabase) GetUserByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDatabase) CreateUser(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockDatabase) UpdateUser(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockDatabase) DeleteUser(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDatabase) GetSiteConfig() (*domain.SiteConfig, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteConfig), args.Error(1)
}

func (m *MockDatabase) CreateSiteConfig(config *domain.SiteConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockDatabase) UpdateSiteConfig(config *domain.SiteConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockDatabase) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadMedia(reader io.Reader, filename string, size int64) (string, error) {
	args := m.Called(reader, filename, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) UploadThumbnail(reader io.Reader, filename string, size int64) (string, error) {
	args := m.Called(reader, filename, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) MediaURL(objectName string) (string, error) {
	args := m.Called(objectName)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) ThumbnailURL(objectName string) (string, error) {
	args := m.Called(objectName)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteMedia(objectName string) error {
	args := m.Called(objectName)
	return args.Error(0)
}

func (m *MockStorage) DeleteThumbnail(objectName string) error {
	args := m.Called(objectName)
	return args.Error(0)
}

type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) PublishPurchase(event domain.PurchaseEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockBroker) PublishAdminAction(event domain.AdminEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockBroker) SubscribeEvents() (<-chan amqp.Delivery, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan amqp.Delivery), args.Error(1)
}

func (m *MockBroker) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockBroker) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTP struct {
	mock.Mock
}

func (m *MockSMTP) SendEmail(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}
