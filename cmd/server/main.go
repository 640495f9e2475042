package main

import (
	"fmt"
	"log"

	"labsight/internal/config"
	"labsight/internal/extractor"
	"labsight/internal/guardrail"
	"labsight/internal/handler"
	"labsight/internal/judge"
	judgegemini "labsight/internal/judge/gemini"
	"labsight/internal/normalizer"
	normclaude "labsight/internal/normalizer/claude"
	normgemini "labsight/internal/normalizer/gemini"
	normopenai "labsight/internal/normalizer/openai"
	"labsight/internal/pipeline"
	"labsight/internal/port"
	"labsight/internal/recognizer"
	recgemini "labsight/internal/recognizer/gemini"
	recopenai "labsight/internal/recognizer/openai"
	"labsight/internal/repository/postgres"
	"labsight/internal/router"
	"labsight/internal/service"
	s3storage "labsight/internal/storage/s3"
	"labsight/internal/summarizer"
	sumgemini "labsight/internal/summarizer/gemini"
	sumopenai "labsight/internal/summarizer/openai"

	"github.com/jmoiron/sqlx"
)

// @title LabSight API
// @version 1.0
// @description Medical lab report analysis pipeline API
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	recognizer.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Recognizer, error) {
		return recgemini.NewRecognizer(cfg), nil
	})
	recognizer.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.Recognizer, error) {
		return recopenai.NewRecognizer(cfg), nil
	})

	normalizer.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Normalizer, error) {
		return normgemini.NewNormalizer(cfg), nil
	})
	normalizer.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.Normalizer, error) {
		return normopenai.NewNormalizer(cfg), nil
	})
	normalizer.RegisterProvider("claude", func(cfg *config.ProviderConfig) (port.Normalizer, error) {
		return normclaude.NewNormalizer(cfg), nil
	})

	judge.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Judge, error) {
		return judgegemini.NewJudge(cfg), nil
	})

	summarizer.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Summarizer, error) {
		return sumgemini.NewSummarizer(cfg), nil
	})
	summarizer.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.Summarizer, error) {
		return sumopenai.NewSummarizer(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registerProviders()

	// Pipeline stages
	rec, err := recognizer.NewRecognizer(&cfg.Recognizer)
	if err != nil {
		return fmt.Errorf("failed to build recognizer: %w", err)
	}
	norm, err := normalizer.NewFromConfig(&cfg.Normalizer)
	if err != nil {
		return fmt.Errorf("failed to build normalizer: %w", err)
	}
	jdg, err := judge.NewJudge(&cfg.Judge)
	if err != nil {
		return fmt.Errorf("failed to build judge: %w", err)
	}
	sum, err := summarizer.NewSummarizer(&cfg.Summarizer)
	if err != nil {
		return fmt.Errorf("failed to build summarizer: %w", err)
	}

	ex := extractor.New(rec)
	guard := guardrail.New(jdg)
	orchestrator := pipeline.New(ex, norm, guard, sum, 0)

	// Run archive is optional; without it the service keeps no trace of
	// processed reports.
	var (
		db      *sqlx.DB
		runRepo port.RunRepository
		storage port.ObjectStorage
	)
	if cfg.Archive.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runRepo = postgres.NewRunRepo(db)

		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	reportSvc := service.NewReportService(orchestrator, runRepo, storage, &cfg.S3)

	reportH := handler.NewReportHandler(reportSvc)
	runH := handler.NewRunHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(reportH, runH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
