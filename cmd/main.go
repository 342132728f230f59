package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/application/services"
	"github.com/maourynd/radio-summary/config"
	"github.com/maourynd/radio-summary/domain"
	"github.com/maourynd/radio-summary/infrastructure/adapters"
	"github.com/maourynd/radio-summary/infrastructure/gin_interface/controllers"
	"github.com/maourynd/radio-summary/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dbConfig, err := config.GetDbConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database config")
	}

	gptConfig, err := config.GetGptConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gpt config")
	}

	transcribeConfig, err := config.GetTranscribeConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get transcribe config")
	}

	scraperConfig, err := config.GetScraperConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get scraper config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	mailchimpConfig, err := config.GetMailchimpConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get mailchimp config")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(s3Config.Region)},
	}))

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in scheduled run")
	}

	workerPool, err := ants.NewPool(4, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	postgres := adapters.NewPostgresDB(dbConfig)
	if err := postgres.Connect(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to postgres")
	}
	defer func() {
		if err := postgres.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close postgres")
		}
	}()
	if err := postgres.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	s3Client := s3.New(sess)
	transcribeClient := transcribeservice.New(sess)

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	objectStore := adapters.NewS3ObjectStore(zeroLogger, s3Client, s3Config)
	jobRunner := adapters.NewTranscribeJobRunner(zeroLogger, transcribeClient, s3Config, transcribeConfig)
	stateStore := adapters.NewPostgresStateStore(zeroLogger, postgres)
	transcriptionStore := adapters.NewPostgresTranscriptionStore(zeroLogger, postgres)
	summaryStore := adapters.NewPostgresSummaryStore(zeroLogger, postgres)
	segmentSource := adapters.NewBroadcastifySource(zeroLogger, contentFetcher, scraperConfig)
	summarizer := adapters.NewGptSummarizer(zeroLogger, contentFetcher, gptConfig)
	renderer := adapters.NewHTMLRenderer()
	mailer := adapters.NewMailchimpSender(zeroLogger, mailchimpConfig)

	admitter := services.NewSegmentAdmitter(zeroLogger, segmentSource, objectStore, stateStore)
	composer := services.NewBatchComposer(zeroLogger, objectStore, stateStore)
	transcriber := services.NewTranscriptionPipeline(zeroLogger, objectStore, jobRunner, transcriptionStore, transcribeConfig)
	runner := services.NewPipelineRunner(zeroLogger, segmentSource, stateStore, admitter, composer, transcriber, pipelineConfig)
	aggregator := services.NewSummaryAggregator(zeroLogger, transcriptionStore, summaryStore, summarizer, objectStore, renderer, mailer)

	schedule(workerPool, runner, aggregator, pipelineConfig, zeroLogger)

	pipelineController := controllers.NewPipelineController(zeroLogger, workerPool, stateStore, runner, aggregator)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}
	router.Use(authHandler.AuthMiddleware())

	pipelineController.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

// schedule runs one pipeline pass immediately, then keeps passes and
// aggregation runs ticking on their own cadences. Every invocation
// goes through the worker pool so a panic in one run is contained by
// the pool's panic handler instead of taking the scheduler down.
func schedule(
	workerPool *ants.Pool,
	runner inbound.PipelineRunnerPort,
	aggregator inbound.SummaryAggregatorPort,
	pipelineConfig *config.PipelineConfig,
	logger outbound.LoggerPort,
) {
	runPass := func() {
		if err := runner.RunPass(context.Background()); err != nil {
			logger.Error(err, "Pipeline pass failed")
		}
	}
	runAggregation := func() {
		_, err := aggregator.Aggregate(context.Background())
		if errors.Is(err, domain.ErrNothingToSummarize) {
			logger.Info("Nothing to summarize yet")
			return
		}
		if err != nil {
			logger.Error(err, "Aggregation run failed")
		}
	}

	if err := workerPool.Submit(runPass); err != nil {
		logger.Error(err, "Failed to submit initial pass")
	}

	go func() {
		passTicker := time.NewTicker(pipelineConfig.PassInterval)
		aggregateTicker := time.NewTicker(pipelineConfig.AggregateInterval)
		defer passTicker.Stop()
		defer aggregateTicker.Stop()

		for {
			select {
			case <-passTicker.C:
				if err := workerPool.Submit(runPass); err != nil {
					logger.Error(err, "Failed to submit pipeline pass")
				}
			case <-aggregateTicker.C:
				if err := workerPool.Submit(runAggregation); err != nil {
					logger.Error(err, "Failed to submit aggregation run")
				}
			}
		}
	}()
}
