package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/flock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"captioner/internal/logging"
	"captioner/internal/pipeline"
	"captioner/internal/services"
	"captioner/internal/textutil"
)

// LockFile is created in the cache root while a server is running.
const LockFile = ".captioner.lock"

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Runner executes one pipeline request.
type Runner interface {
	Execute(ctx context.Context, locator string, format pipeline.Format) (pipeline.Output, error)
}

// Server is the HTTP front end.
type Server struct {
	runner  Runner
	baseDir string
	bind    string
	logger  *slog.Logger
	echo    *echo.Echo
}

// New constructs a server. baseDir is the cache root that gets locked while
// serving.
func New(runner Runner, baseDir, bind string, logger *slog.Logger) *Server {
	s := &Server{
		runner:  runner,
		baseDir: baseDir,
		bind:    strings.TrimSpace(bind),
		logger:  logging.NewComponentLogger(logger, "server"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newFormValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []logging.Attr{
				logging.String("method", v.Method),
				logging.String("uri", v.URI),
				logging.Int("status", v.Status),
				logging.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, logging.Error(v.Error))
			}
			s.logger.Info("http request", logging.Args(attrs...)...)
			return nil
		},
	}))

	e.GET("/", s.handleIndex)
	e.POST("/", s.handleSubmit)
	e.GET("/health", s.handleHealth)
	s.echo = e
	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Serve locks the cache root and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	lock, err := acquireLock(s.baseDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release cache lock", logging.Error(err))
		}
	}()

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.bind, err)
	}
	s.echo.Listener = listener
	s.echo.Server.ReadHeaderTimeout = 10 * time.Second

	errCh := make(chan error, 1)
	go func() { errCh <- s.echo.Start("") }()
	s.logger.Info("http server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("cache_root", s.baseDir),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// acquireLock takes the exclusive cache lock without blocking.
func acquireLock(baseDir string) (*flock.Flock, error) {
	path := filepath.Join(baseDir, LockFile)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.DirectoryError(services.ErrDirectoryNotWritable, path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: cache root %s is locked by another server", services.ErrConfiguration, baseDir)
	}
	return lock, nil
}

type submission struct {
	URL    string `form:"youtube_url" validate:"required,url"`
	Format string `form:"format" validate:"required,oneof=srt csv json subtitle table records"`
}

type formOption struct {
	Value    string
	Label    string
	Selected bool
}

type indexView struct {
	URL     string
	Error   string
	Formats []formOption
}

func newIndexView(url, format, message string) indexView {
	if format == "" {
		format = "srt"
	}
	options := []formOption{
		{Value: "srt", Label: "Subtitles (.srt)"},
		{Value: "csv", Label: "Table (.csv)"},
		{Value: "json", Label: "Records (.json)"},
	}
	for i := range options {
		options[i].Selected = options[i].Value == format
	}
	return indexView{URL: url, Error: message, Formats: options}
}

func (s *Server) render(c echo.Context, status int, view indexView) error {
	var b strings.Builder
	if err := indexTemplate.Execute(&b, view); err != nil {
		return err
	}
	return c.HTML(status, b.String())
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.render(c, http.StatusOK, newIndexView("", "", ""))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmit(c echo.Context) error {
	var req submission
	if err := c.Bind(&req); err != nil {
		return s.fail(c, req, services.Wrap(services.ErrInvalidLocator, services.StageValidate, "bind form", "", err))
	}
	if err := c.Validate(&req); err != nil {
		return s.fail(c, req, classifyValidation(err))
	}
	format, err := pipeline.ParseFormat(req.Format)
	if err != nil {
		return s.fail(c, req, err)
	}

	out, err := s.runner.Execute(c.Request().Context(), strings.TrimSpace(req.URL), format)
	if err != nil {
		return s.fail(c, req, err)
	}
	if format == pipeline.FormatRecords {
		defer s.removeExport(out.Path)
	}
	return c.Attachment(out.Path, attachmentName(out))
}

func (s *Server) fail(c echo.Context, req submission, err error) error {
	status := StatusFor(err)
	attrs := []logging.Attr{logging.Int("status", status), logging.Error(err)}
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(s.logger, "request failed", "request_failure", attrs...)
	} else {
		s.logger.Info("request rejected", logging.Args(attrs...)...)
	}
	return s.render(c, status, newIndexView(req.URL, req.Format, userMessage(err)))
}

// removeExport deletes a derived file after it has been streamed.
func (s *Server) removeExport(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(s.logger, "failed to remove delivered export", "export_cleanup",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale export left in cache directory"),
		)
	}
}

// classifyValidation maps a failed form field to its error kind.
func classifyValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Format" {
				return services.Wrap(services.ErrUnsupportedFormat, services.StageValidate, "validate form", "format", err)
			}
		}
	}
	return services.Wrap(services.ErrInvalidLocator, services.StageValidate, "validate form", "youtube_url", err)
}

func attachmentName(out pipeline.Output) string {
	return textutil.DownloadName(out.Asset.Title, out.Asset.Key, out.Format.Extension())
}
