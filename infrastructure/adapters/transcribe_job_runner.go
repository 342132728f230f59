package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/transcribeservice"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
	"github.com/maourynd/radio-summary/domain"
)

type transcribeJobRunner struct {
	logger        outbound.LoggerPort
	transcribeSvc *transcribeservice.TranscribeService
	s3Config      *config.S3Config
	transcribeCfg *config.TranscribeConfig
}

func NewTranscribeJobRunner(
	logger outbound.LoggerPort,
	transcribeSvc *transcribeservice.TranscribeService,
	s3Config *config.S3Config,
	transcribeCfg *config.TranscribeConfig,
) outbound.TranscriptionJobPort {
	return &transcribeJobRunner{
		logger:        logger,
		transcribeSvc: transcribeSvc,
		s3Config:      s3Config,
		transcribeCfg: transcribeCfg,
	}
}

func (t *transcribeJobRunner) Submit(ctx context.Context, params outbound.SubmitJobParams) error {
	mediaURI := fmt.Sprintf("s3://%s/%s", t.s3Config.BucketName, params.MediaKey)

	_, err := t.transcribeSvc.StartTranscriptionJobWithContext(ctx, &transcribeservice.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(params.JobName),
		Media: &transcribeservice.Media{
			MediaFileUri: aws.String(mediaURI),
		},
		MediaFormat:      aws.String(t.transcribeCfg.MediaFormat),
		LanguageCode:     aws.String(t.transcribeCfg.LanguageCode),
		OutputBucketName: aws.String(t.s3Config.BucketName),
		OutputKey:        aws.String(params.OutputKey),
	})
	if err != nil {
		t.logger.ErrorWithFields(err, "Failed to start transcription job", map[string]interface{}{
			"jobName":  params.JobName,
			"mediaURI": mediaURI,
		})
		return err
	}

	t.logger.InfoWithFields("Started transcription job", map[string]interface{}{
		"jobName": params.JobName,
	})
	return nil
}

// Lookup reports found=false for a job name Transcribe has never seen.
// The service answers that case with BadRequestException/NotFound, and
// both are an expected outcome here rather than an error.
func (t *transcribeJobRunner) Lookup(ctx context.Context, jobName string) (domain.JobStatus, bool, error) {
	out, err := t.transcribeSvc.GetTranscriptionJobWithContext(ctx, &transcribeservice.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) {
			switch awsErr.Code() {
			case transcribeservice.ErrCodeBadRequestException, transcribeservice.ErrCodeNotFoundException:
				return "", false, nil
			}
		}
		return "", false, err
	}

	status := aws.StringValue(out.TranscriptionJob.TranscriptionJobStatus)
	switch status {
	case transcribeservice.TranscriptionJobStatusCompleted:
		return domain.JobCompleted, true, nil
	case transcribeservice.TranscriptionJobStatusFailed:
		return domain.JobFailed, true, nil
	default:
		// QUEUED and IN_PROGRESS both mean "keep polling".
		return domain.JobInProgress, true, nil
	}
}
