package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/amfi"
	"github.com/etnz/camsfolio/config"
	"github.com/etnz/camsfolio/extract"
	"github.com/etnz/camsfolio/logger"
	"github.com/etnz/camsfolio/server"
	"github.com/etnz/camsfolio/session"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the statement API for the dashboard" }
func (*serveCmd) Usage() string {
	return `cams serve

  Serves the JSON API. It is configured by the environment, or a .env file:
  PORT, LOG_LEVEL, MAX_UPLOAD_SIZE_BYTES, MAX_REQUEST_SIZE_BYTES, NAV_FILE, EXTRACTOR_COMMAND, SESSION_TTL,
  ALLOWED_ORIGINS, TEMP_DIR, RATE_LIMIT_RPS and RATE_LIMIT_BURST.
`
}

func (*serveCmd) SetFlags(f *flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := config.Load()
	level := cfg.LogLevel
	if *Verbose {
		level = "debug"
	}
	logger.Init(level, "json")
	if level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ingester := &camsfolio.Ingester{
		Extractor: extract.New(cfg.ExtractorCommand),
		MaxSize:   cfg.MaxUploadSizeBytes,
		TempDir:   cfg.TempDir,
	}
	srv := server.New(session.NewStore(cfg.SessionTTL), ingester, amfi.File(cfg.NAVFile), server.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		MaxRequestBytes: cfg.MaxRequestBytes,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", httpServer.Addr).Info("listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error shutting down: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
