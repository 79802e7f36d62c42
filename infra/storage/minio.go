package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront-service/infra/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient addresses the two storefront buckets: one for video media
// files, one for thumbnails. Object keys are the opaque file references
// stored on video records.
type MinIOClient struct {
	client           *minio.Client
	bucketMedia      string
	bucketThumbnails string
	publicEndpoint   string
	urlExpiry        time.Duration
}

func InitMinIO() *MinIOClient {
	endpoint := utils.GetEnv("MINIO_ENDPOINT", "localhost:9000")
	accessKey := utils.GetEnv("MINIO_ACCESS_KEY", "storefront")
	secretKey := utils.GetEnv("MINIO_SECRET_KEY", "storefront123")
	useSSL := utils.GetEnv("MINIO_USE_SSL", "false") == "true"
	bucketMedia := utils.GetEnv("MINIO_BUCKET_MEDIA", "videos-media")
	bucketThumbnails := utils.GetEnv("MINIO_BUCKET_THUMBNAILS", "videos-thumbnails")
	publicEndpoint := utils.GetEnv("MINIO_PUBLIC_ENDPOINT", "localhost:9000")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatalf("Failed to create MinIO client: %v", err)
	}

	ctx := context.Background()

	buckets := []string{bucketMedia, bucketThumbnails}
	for _, bucket := range buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			log.Fatalf("Failed to check bucket %s: %v", bucket, err)
		}
		if !exists {
			err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
			if err != nil {
				log.Fatalf("Failed to create bucket %s: %v", bucket, err)
			}
			log.Printf("Created bucket: %s", bucket)
		}
	}

	log.Println("Connected to MinIO")

	return &MinIOClient{
		client:           client,
		bucketMedia:      bucketMedia,
		bucketThumbnails: bucketThumbnails,
		publicEndpoint:   publicEndpoint,
		urlExpiry:        4 * time.Hour,
	}
}

func (m *MinIOClient) Ping() error {
	ctx := context.Background()
	_, err := m.client.BucketExists(ctx, m.bucketMedia)
	return err
}

func (m *MinIOClient) upload(bucket string, reader io.Reader, filename string, size int64, contentType string) (string, error) {
	ctx := context.Background()

	objectName := fmt.Sprintf("%s/%s", time.Now().Format("2006/01/02"), filename)

	_, err := m.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

func (m *MinIOClient) UploadMedia(reader io.Reader, filename string, size int64) (string, error) {
	return m.upload(m.bucketMedia, reader, filename, size, "video/mp4")
}

func (m *MinIOClient) UploadThumbnail(reader io.Reader, filename string, size int64) (string, error) {
	return m.upload(m.bucketThumbnails, reader, filename, size, "application/octet-stream")
}

func (m *MinIOClient) presign(bucket, objectName string) (string, error) {
	ctx := context.Background()

	url, err := m.client.PresignedGetObject(ctx, bucket, objectName, m.urlExpiry, nil)
	if err != nil {
		return "", err
	}

	urlString := url.String()
	return strings.Replace(urlString, "minio:9000", m.publicEndpoint, 1), nil
}

func (m *MinIOClient) MediaURL(objectName string) (string, error) {
	return m.presign(m.bucketMedia, objectName)
}

func (m *MinIOClient) ThumbnailURL(objectName string) (string, error) {
	return m.presign(m.bucketThumbnails, objectName)
}

func (m *MinIOClient) DeleteMedia(objectName string) error {
	ctx := context.Background()
	return m.client.RemoveObject(ctx, m.bucketMedia, objectName, minio.RemoveObjectOptions{})
}

func (m *MinIOClient) DeleteThumbnail(objectName string) error {
	ctx := context.Background()
	return m.client.RemoveObject(ctx, m.bucketThumbnails, objectName, minio.RemoveObjectOptions{})
}
