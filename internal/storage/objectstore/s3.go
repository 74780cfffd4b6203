// Package objectstore загружает изображения товаров в S3-совместимое
// хранилище (MinIO) и возвращает публичные ссылки на объекты.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/scanhub/barcode-aggregator/internal/config"
)

// Store держит настройки подключения к хранилищу объектов.
// Клиент S3 создаётся лениво на каждый вызов: SDK сам переиспользует
// соединения через общий http.Client.
type Store struct {
	cfg config.ObjectStorage
}

// New создаёт Store с настройками из конфига процесса.
func New(cfg config.ObjectStorage) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3AccessKey,
			s.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.S3Endpoint)
		// MinIO не поддерживает virtual-host адресацию бакетов.
		o.UsePathStyle = true
	}), nil
}

// storageKey строит ключ объекта вида products/2026/09/01/<uuid><ext>.
func storageKey(filename string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("products/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

// UploadImage кладёт содержимое r в бакет и возвращает абсолютный
// публичный URL загруженного объекта.
func (s *Store) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	const op = "objectstore.UploadImage"

	client, err := s.client(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := storageKey(filename)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.S3Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.cfg.PublicBaseURL, s.cfg.S3Bucket, key), nil
}
