// Package storage envia as imagens de produto para um bucket S3 (ou compatível, ex. MinIO).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/xavierca1/rog-store/internal/config"
	"go.uber.org/zap"
)

var ErrUnsupportedImage = errors.New("formato de imagem não suportado")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type ImageStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	logger    *zap.Logger
}

func NewImageStore(cfg appconfig.StorageConfig, logger *zap.Logger) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET não configurado")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar config AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &ImageStore{client: client, bucket: cfg.Bucket, publicURL: publicURL, logger: logger}, nil
}

// UploadProductImage grava em products/<id>/<uuid>.<ext> e devolve a URL pública.
func (s *ImageStore) UploadProductImage(ctx context.Context, productID, contentType string, body io.Reader) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	key := path.Join("products", productID, uuid.NewString()+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("erro ao enviar imagem: %w", err)
	}

	s.logger.Info("📷 imagem enviada", zap.String("product_id", productID), zap.String("key", key))
	return s.URLFor(key), nil
}

// DeleteByURL remove um objeto a partir da URL pública; URLs de outro host são ignoradas.
func (s *ImageStore) DeleteByURL(ctx context.Context, url string) error {
	prefix := strings.TrimSuffix(s.publicURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(url, prefix)),
	})
	return err
}

func (s *ImageStore) URLFor(key string) string {
	return strings.TrimSuffix(s.publicURL, "/") + "/" + key
}
