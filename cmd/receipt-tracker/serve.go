package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/receipt-tracker/internal/server"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "port",
			Usage: "Listen on `PORT` instead of the configured one",
		},
	},
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(cCtx)
	if err != nil {
		return err
	}
	if port := cCtx.Int("port"); port > 0 {
		a.config.Port = port
	}

	if a.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(a.config, a.logger, a.pipeline, a.loader)
	if err != nil {
		return err
	}

	go func() {
		a.logger.WithField("port", a.config.Port).Infof("server starting http://localhost:%d", a.config.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
