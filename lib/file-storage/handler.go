package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/config"
	s3client "permit-workflow-backend/s3"
)

type Provider interface {
	UploadDocument(ctx context.Context, applicationID, fileName, contentType string, body []byte) (objectKey string, err error)
	GetFile(ctx context.Context, objectKey string) ([]byte, error)
	DeleteFile(ctx context.Context, objectKey string) error
}

var Instance Provider

var ErrFileNotFound = errors.New("file not found in storage")

func NewHandler() {
	Instance = impl{
		client: s3client.Client,
	}
}

type impl struct {
	client *minio.Client
}

// DocumentObjectKey builds the storage key applications/{application_id}/{uuid}{ext}.
func DocumentObjectKey(applicationID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("applications/%s/%s%s", applicationID, uuid.New().String(), ext)
}

func (i impl) UploadDocument(ctx context.Context, applicationID, fileName, contentType string, body []byte) (objectKey string, err error) {
	if i.client == nil {
		return "", errors.New("s3 client is not initialized")
	}
	objectKey = DocumentObjectKey(applicationID, fileName)
	_, err = i.client.PutObject(ctx, config.Conf.S3.BucketName, objectKey, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file")
	}
	log.WithField("object_key", objectKey).WithField("application_id", applicationID).Info("file uploaded")
	return objectKey, nil
}

func (i impl) GetFile(ctx context.Context, objectKey string) ([]byte, error) {
	if i.client == nil {
		return nil, errors.New("s3 client is not initialized")
	}
	object, err := i.client.GetObject(ctx, config.Conf.S3.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file")
	}
	defer object.Close()
	body, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrFileNotFound
		}
		return nil, errors.Wrap(err, "failed to read file")
	}
	return body, nil
}

func (i impl) DeleteFile(ctx context.Context, objectKey string) error {
	if i.client == nil {
		return errors.New("s3 client is not initialized")
	}
	err := i.client.RemoveObject(ctx, config.Conf.S3.BucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to delete file")
	}
	return nil
}
