package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/database"
	"github.com/noah-isme/lingua-go-api/internal/handler"
	"github.com/noah-isme/lingua-go-api/internal/middleware"
	"github.com/noah-isme/lingua-go-api/internal/router"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.AppEnv)

		deps, err := connect(cfg, logger)
		if err != nil {
			return err
		}
		defer deps.Close()

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := database.Migrate(deps.db); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := deps.services(ctx)

		app := fiber.New(fiber.Config{
			AppName:      cfg.AppName,
			ServerHeader: cfg.AppName,
			BodyLimit:    2 * 1024 * 1024,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					return utils.SendError(c, fiberErr.Code, fiberErr.Message)
				}
				logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
				return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
			},
		})

		middleware.Register(app, middleware.Config{
			Logger:         &logger,
			AllowedOrigins: cfg.AllowedOrigins,
			AccessLog:      !cfg.IsProduction(),
		})
		router.Register(app, cfg, router.Dependencies{
			LessonHandler:     handler.NewLessonHandler(svc.lessons, svc.catalog, logger),
			ProgressHandler:   handler.NewProgressHandler(svc.progress, logger),
			LevelCheckHandler: handler.NewLevelCheckHandler(svc.levelCheck, logger),
			AdminTaskHandler:  handler.NewAdminTaskHandler(svc.catalog, logger),
			SeedHandler:       handler.NewSeedHandler(svc.seed, logger),
			JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
			HealthProbes:      deps.healthProbes(),
		})

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", cfg.HTTPAddress()).Msg("http server listening")
			errCh <- app.Listen(cfg.HTTPAddress())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run schema migrations before serving")
}
