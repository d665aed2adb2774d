package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// Archive implementasi domain.PayloadArchive: simpan raw payload media
// ke object storage dan balikin URL objeknya.
func (s *Store) Archive(ctx context.Context, key string, input domain.InputType, data string) (string, error) {
	contentType := contentTypeFor(input)
	reader := strings.NewReader(data)

	_, err := s.client.PutObject(ctx, s.bucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}

// contentType sederhana per input type; payload media dikirim sebagai
// string (umumnya base64/data URI), jadi default octet-stream
func contentTypeFor(input domain.InputType) string {
	switch input {
	case domain.InputText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
