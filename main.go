package main

import (
	"context"
	"fmt"
	"os"

	"faq-auditor/audit"
	"faq-auditor/config"
	"faq-auditor/discover"
	"faq-auditor/fetcher"
	"faq-auditor/llm"
	"faq-auditor/services"
	"faq-auditor/storage"
	"faq-auditor/utils"
	"faq-auditor/validate"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if len(os.Args) > 1 && os.Args[1] == "revalidate" {
		runRevalidate(cfg, logger, os.Args[2:])
		return
	}
	runAudit(cfg, logger)
}

func runAudit(cfg *config.Config, logger *utils.Logger) {
	ctx := context.Background()

	logger.Info("=== FAQ Audit starting ===")
	logger.Info("Config — country: %s | render: %v | calls/hotel: %d | rate: %dms",
		cfg.CountryURL, cfg.RenderMode, cfg.MaxCallsPerHotel, cfg.RateLimitMs)

	httpClient := fetcher.NewClient(logger)

	// Render mode routes every fetch through the browser — discovery pages
	// included, since the site builds its listings with scripts too.
	var pageFetcher fetcher.PageFetcher = httpClient
	var discoverFetch discover.Fetcher = httpClient
	if cfg.RenderMode {
		logger.Info("Render mode on — all pages go through a headless browser")
		renderer := fetcher.NewRenderer(cfg, logger)
		pageFetcher = renderer
		discoverFetch = renderer
	}

	safety := llm.NewSafetyManager(cfg.SafetyMode, logger)
	agent := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, safety, logger, cfg.MaxRetries)

	sheets, err := storage.NewWorkbook(cfg.WorkbookDir)
	if err != nil {
		logger.Error("Failed to open workbook store: %v", err)
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()
	writers := []storage.ReportWriter{csvWriter}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()
		writers = append(writers, pgWriter)
	}

	job := audit.NewJob(
		discover.New(discoverFetch, cfg.BaseDomain, logger),
		pageFetcher,
		validate.NewRules(),
		validate.NewSemantic(agent, cfg.OpenAIModel, cfg.MaxCallsPerHotel, logger),
		sheets,
		writers,
		logger,
	)

	summary, rows, err := job.Run(ctx, cfg.CountryURL, cfg.ReportTitle)
	if err != nil {
		logger.Error("Audit failed: %v", err)
		os.Exit(1)
	}

	// When PostgreSQL is on, insights read back from the database so the
	// printed numbers reflect what was actually persisted.
	if pgWriter != nil {
		dbRows, err := pgWriter.FetchAll()
		if err != nil {
			logger.Error("Failed to fetch rows from DB for insights: %v", err)
		} else {
			rows = dbRows
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(rows, summary))

	fmt.Printf("  Done. Report CSV → %s | Workbooks → %s\n\n",
		cfg.CSVOutputPath, cfg.WorkbookDir)
}

func runRevalidate(cfg *config.Config, logger *utils.Logger, workbookIDs []string) {
	if len(workbookIDs) == 0 {
		logger.Error("Usage: faq-auditor revalidate <workbook-id> [<workbook-id> ...]")
		os.Exit(1)
	}

	logger.Info("=== FAQ Sheet Re-validation starting ===")
	logger.Info("Config — workbooks: %d | concurrency: %d | rate: %dms",
		len(workbookIDs), cfg.MaxConcurrency, cfg.RateLimitMs)

	sheets, err := storage.NewWorkbook(cfg.WorkbookDir)
	if err != nil {
		logger.Error("Failed to open workbook store: %v", err)
		os.Exit(1)
	}

	safety := llm.NewSafetyManager(cfg.SafetyMode, logger)
	agent := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, safety, logger, cfg.MaxRetries)

	job := services.NewRevalidateJob(agent, sheets, logger, cfg.OpenAIModel,
		cfg.MaxConcurrency, cfg.RateLimitMs)
	job.Run(context.Background(), workbookIDs)

	logger.Info("Re-validation finished")
}
