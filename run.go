package investec

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Run loads .env, parses args and serves the banking tools over stdio
func Run(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	ctx := context.Background()
	if err := options.Load(ctx); err != nil {
		return err
	}
	logger, err := NewLogger(os.Stderr, options.LogLevel, options.LogFormat)
	if err != nil {
		return err
	}
	tracerProvider, err := setupTracing(ctx, options.TraceEndpoint)
	if err != nil {
		return err
	}
	if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("trace shutdown failed")
			}
		}()
		logger.WithField("endpoint", options.TraceEndpoint).Info("tracing enabled")
	}
	service, err := New(options, logger)
	if err != nil {
		return err
	}
	logger.WithField("baseURL", options.BaseURL).Info("serving investec tools over stdio")
	return service.Stdio(ctx).ListenAndServe()
}
