// Package server exposes the pixkit tools over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/editor"
	"github.com/esimov/pixkit/finance"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// multipartOverhead is the body room left for the form fields next to the upload.
const multipartOverhead = 1 << 20

// Server wires the handlers to a fiber application.
type Server struct {
	cfg   *Config
	app   *fiber.App
	faces *pixkit.FaceDetector
}

// New builds the application. The face cascade is loaded when configured.
func New(cfg *Config) (*Server, error) {
	s := &Server{cfg: cfg}
	if cfg.CascadePath != "" {
		fd, err := pixkit.LoadFaceDetector(cfg.CascadePath)
		if err != nil {
			return nil, err
		}
		s.faces = fd
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "pixkit",
		BodyLimit:    cfg.MaxUpload + multipartOverhead,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		ErrorHandler: errorHandler,
	})
	s.app.Use(recover.New())
	if cfg.Environment != "test" {
		s.app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
	}))
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	img := s.app.Group("/image")
	img.Post("/resize", s.handleResize)
	img.Post("/filter", s.handleFilter)
	img.Post("/watermark", s.handleWatermark)
	img.Post("/favicon", s.handleFavicon)
	img.Post("/mockup", s.handleMockup)

	col := s.app.Group("/color")
	col.Get("/convert", handleColorConvert)
	col.Get("/contrast", handleContrast)
	col.Get("/palette", handlePalette)

	s.app.Post("/seo/readability", handleReadability)

	fin := s.app.Group("/finance")
	fin.Post("/tax", handleTax)
	fin.Post("/loan", handleLoan)
	fin.Post("/interest", handleInterest)

	s.app.Post("/editor/render", handleEditorRender)
}

// App returns the fiber application, e.g. for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Listen(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%s", s.cfg.Port)
		pixkit.Logger().Info("starting server", "addr", addr, "env", s.cfg.Environment)
		errc <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func badRequest(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}

// statusOf maps the library errors to HTTP status codes.
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, pixkit.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, pixkit.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, pixkit.ErrDecode),
		errors.Is(err, pixkit.ErrInvalidSize),
		errors.Is(err, pixkit.ErrEmptyCrop),
		errors.Is(err, pixkit.ErrTargetSize),
		errors.Is(err, editor.ErrNotSVG),
		errors.Is(err, finance.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, colors.ErrInvalidColor),
		errors.Is(err, finance.ErrUnknownStatus):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorHandler(c fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		pixkit.Logger().Warn("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
