// Package web serves the preview page, the media endpoint and a JSON API
// over a Browser.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/videogen/outputs-preview/internal/browse"
	"github.com/videogen/outputs-preview/internal/cache"
	"github.com/videogen/outputs-preview/internal/constants"
	"github.com/videogen/outputs-preview/internal/logging"
	"github.com/videogen/outputs-preview/internal/models"
)

// Searcher runs search passes and serves matched media.
// *browse.Browser implements it.
type Searcher interface {
	Search(ctx context.Context, sel models.Selection, opts browse.Options) (*models.Result, error)
	Media(ctx context.Context, fileID string) (models.MatchedVideo, []byte, error)
	CacheStats() cache.Stats
}

var _ Searcher = (*browse.Browser)(nil)

// Server holds the handlers' dependencies.
type Server struct {
	searcher Searcher
	logger   *logging.Logger
	tpl      *template.Template
}

// NewServer builds the echo router for the preview site.
func NewServer(searcher Searcher, logger *logging.Logger) *echo.Echo {
	s := &Server{
		searcher: searcher,
		logger:   logger,
		tpl:      template.Must(template.New("page").Funcs(pageFuncs).Parse(pageTpl)),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/", s.handlePage)
	e.GET("/media/:id", s.handleMedia)
	e.GET("/api/search", s.handleAPISearch)
	e.GET("/health", echo.WrapHandler(HealthHandler(searcher.CacheStats)))
	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(logger *logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Info()
			if v.Error != nil {
				ev = logger.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// Serve runs e on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Preview server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
