// Package objectstore сохраняет квитанции об оплате тарифа и возвращает непрозрачную ссылку на файл.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/contrato-facil/internal/config"
)

// StubReference ссылка, которую возвращает заглушка.
const StubReference = "proof_uploaded_successfully"

const defaultRegion = "us-east-1"

// Proof загружаемая квитанция.
type Proof struct {
	UserID      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MinioStore хранит квитанции в бакете S3-совместимого хранилища.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinio создаёт клиент MinIO. Соединение не проверяется до первой операции.
func NewMinio(cfg config.ObjectStorage) (*MinioStore, error) {
	const op = "objectstore.NewMinio"
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket создаёт бакет, если его нет.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	const op = "objectstore.EnsureBucket"
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: defaultRegion}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UploadPaymentProof загружает квитанцию и возвращает ссылку вида bucket/user/uuid.ext.
func (s *MinioStore) UploadPaymentProof(ctx context.Context, p Proof) (string, error) {
	const op = "objectstore.UploadPaymentProof"
	name := ObjectName(p.UserID, p.Filename)
	contentType := p.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, p.Body, p.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.bucket + "/" + name, nil
}

// ObjectName строит имя объекта квитанции с сохранением расширения исходного файла.
func ObjectName(userID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	return "proofs/" + userID + "/" + uuid.NewString() + ext
}

// Stub принимает квитанцию, ничего не сохраняя.
type Stub struct{}

// NewStub создаёт заглушку.
func NewStub() *Stub {
	return &Stub{}
}

// UploadPaymentProof дочитывает тело и возвращает StubReference.
func (Stub) UploadPaymentProof(ctx context.Context, p Proof) (string, error) {
	const op = "objectstore.Stub.UploadPaymentProof"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if p.Body != nil {
		if _, err := io.Copy(io.Discard, p.Body); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	return StubReference, nil
}
