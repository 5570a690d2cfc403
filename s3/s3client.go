package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/config"
)

var Client *minio.Client

const bucketLocation = "us-east-1"

func NewClient() (*minio.Client, error) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: config.Conf.S3.UseSSL != nil && *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "s3 client init failed")
	}
	return minioClient, nil
}

// MakeBucket creates the configured bucket when it does not exist yet.
func MakeBucket(ctx context.Context, minioClient *minio.Client) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrap(err, "bucket check failed")
	}
	if exists {
		return nil
	}
	err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: bucketLocation})
	if err != nil {
		return errors.Wrap(err, "bucket creation failed")
	}
	log.WithField("bucket", bucketName).Info("s3 bucket created")
	return nil
}
