package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	s3client "permit-workflow-backend/s3"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to init s3 client")
		return
	}

	// bucket check doubles as a connection check
	if err = s3client.MakeBucket(ctx, minioClient); err != nil {
		log.WithError(err).Error("s3 bucket is not available")
	}

	s3client.Client = minioClient
	log.Info("s3 client initialized")
}
