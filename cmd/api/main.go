package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	batchRepo := repositories.NewBatchRepository()
	uploadService := services.NewUploadService(cfg.Storage.MaxFileSize)
	pdfParser := services.NewPDFParserService()

	// Requests can opt in with send_email even when EMAIL_ENABLED is false.
	notifier, err := services.NewSMTPNotifier(cfg.Mail, zlog)
	if err != nil {
		if cfg.Mail.Enabled {
			zlog.Fatal("failed to initialize mail notifier", zap.Error(err))
		}
		zlog.Warn("mail notifier unavailable", zap.Error(err))
	}

	var sink services.ReportSink
	if cfg.Report.Bucket != "" {
		sink, err = services.NewS3ReportSink(context.Background(), cfg.Report.Bucket, cfg.Report.Prefix, cfg.Report.Region, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize report sink", zap.Error(err))
		}
		zlog.Info("report sink initialized", zap.String("bucket", cfg.Report.Bucket))
	}

	profile := models.ScoringProfile{
		Skills:    cfg.Profile.Skills,
		Education: cfg.Profile.Education,
		Cutoff:    cfg.Profile.Cutoff,
	}
	screener := services.NewScreenerService(profile, pdfParser, notifier, zlog)

	worker := services.NewWorker(
		batchRepo,
		screener,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		zlog,
	)

	ctx := context.Background()
	worker.Start(ctx)

	screenHandler := handlers.NewScreenHandler(
		batchRepo,
		uploadService,
		screener,
		worker,
		cfg.Mail.Enabled,
	)
	resultHandler := handlers.NewResultHandler(batchRepo, sink)

	app := fiber.New(fiber.Config{
		AppName:      "Bulk Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    cfg.Storage.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, screenHandler, resultHandler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting",
		zap.String("addr", addr),
		zap.Float64("cutoff", profile.Cutoff),
		zap.Int("skills", len(profile.Skills)),
		zap.Bool("email_enabled", cfg.Mail.Enabled),
	)

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
