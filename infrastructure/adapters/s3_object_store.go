package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
)

// S3 batch delete caps at 1000 keys per request.
const deleteBatchSize = 1000

type s3ObjectStore struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3ObjectStore(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.ObjectStorePort {
	return &s3ObjectStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3ObjectStore) Upload(ctx context.Context, key string, payload []byte) error {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return err
	}

	s.logger.DebugWithFields("Uploaded object to S3", map[string]interface{}{
		"key": key,
	})
	return nil
}

func (s *s3ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get object from S3", map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Error(err, "Failed to close S3 object body")
		}
	}(out.Body)

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return payload, nil
}

func (s *s3ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.s3Config.BucketName),
		Prefix: aws.String(prefix),
	}

	err := s.s3Svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, object := range page.Contents {
			keys = append(keys, aws.StringValue(object.Key))
		}
		return true
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to list objects in S3", map[string]interface{}{
			"prefix": prefix,
		})
		return nil, err
	}
	return keys, nil
}

func (s *s3ObjectStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.s3Svc.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.s3Config.BucketName),
		CopySource: aws.String(s.s3Config.BucketName + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to copy object in S3", map[string]interface{}{
			"srcKey": srcKey,
			"dstKey": dstKey,
		})
	}
	return err
}

func (s *s3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to delete object from S3", map[string]interface{}{
			"key": key,
		})
	}
	return err
}

func (s *s3ObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]*s3.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := s.s3Svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.s3Config.BucketName),
			Delete: &s3.Delete{Objects: objects},
		})
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to batch delete objects from S3", map[string]interface{}{
				"prefix": prefix,
			})
			return err
		}
	}

	s.logger.InfoWithFields("Deleted all objects under prefix", map[string]interface{}{
		"prefix": prefix,
		"count":  len(keys),
	})
	return nil
}

func (s *s3ObjectStore) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.s3Config.BucketName, key)
}
