package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/receipt-tracker/internal/config"
	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
	"github.com/ridwanfathin/receipt-tracker/internal/sheetdb"
	"github.com/ridwanfathin/receipt-tracker/internal/storage"
)

// app holds everything the commands share
type app struct {
	config   *config.Config
	logger   *logrus.Logger
	client   *sheetdb.Client
	loader   *options.Loader
	pipeline *form.Pipeline
}

func loadApp(cCtx *cli.Context) (*app, error) {
	cfg, err := config.LoadConfig(cCtx.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	client := sheetdb.NewClient(&sheetdb.Config{
		ListEndpoint:   cfg.ListEndpoint,
		WriteEndpoint:  cfg.WriteEndpoint,
		UploadEndpoint: cfg.UploadEndpoint,
		ReadStyle:      sheetdb.ReadStyle(cfg.ListReadStyle),
		Timeout:        cfg.HTTPTimeout,
	})

	var uploader sheetdb.Uploader = client
	if cfg.UploadBackend == config.UploadBackendS3 {
		s3Uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 uploader: %w", err)
		}
		uploader = s3Uploader
	}

	loader := options.NewLoader(client, logger)
	pipeline := form.NewPipeline(form.Config{
		Store:    client,
		Uploader: uploader,
		Loader:   loader,
		Resize: &imageutil.ResizeConfig{
			MaxDimension: cfg.ImageMaxDimension,
			Quality:      cfg.ImageQuality,
		},
		MaxWorkers: cfg.MaxWorkers,
		Logger:     logger,
	})

	logger.WithFields(logrus.Fields{
		"upload_backend": cfg.UploadBackend,
		"read_style":     cfg.ListReadStyle,
		"max_workers":    cfg.MaxWorkers,
	}).Debug("pipeline configured")

	return &app{
		config:   cfg,
		logger:   logger,
		client:   client,
		loader:   loader,
		pipeline: pipeline,
	}, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if strings.EqualFold(cfg.LogFormat, "pretty") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
