package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mapmymeal/api/internal/auth"
	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/config"
	"github.com/mapmymeal/api/internal/handler"
	"github.com/mapmymeal/api/internal/metrics"
	middlewarepkg "github.com/mapmymeal/api/internal/middleware"
	"github.com/mapmymeal/api/internal/router"
	"github.com/mapmymeal/api/internal/service"
	"github.com/mapmymeal/api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	zerolog.DefaultContextLogger = &logger

	m := metrics.New()

	geocoder := client.NewGeocoder(cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout,
		client.WithBaseURL(cfg.Geocoder.BaseURL), client.WithObserver(m))
	places := client.NewPlaceSearcher(client.PlaceSearchConfig{
		APIKey:       cfg.SerpAPIKey,
		GoogleDomain: cfg.Places.GoogleDomain,
		Language:     cfg.Places.Language,
		Zoom:         cfg.Places.Zoom,
		Timeout:      cfg.Places.Timeout,
	}, client.WithBaseURL(cfg.Places.BaseURL), client.WithObserver(m))
	chat := client.NewChatClient(client.ChatConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		Referer: cfg.Chat.Referer,
		Title:   cfg.Chat.Title,
		Timeout: cfg.Chat.Timeout,
	}, client.WithBaseURL(cfg.Chat.BaseURL), client.WithObserver(m))

	planner := service.NewPlanner(chat, service.PlannerConfig{
		Model:    cfg.Chat.Model,
		Cuisine:  cfg.Planner.Cuisine,
		Currency: cfg.Planner.Currency,
	})
	meals := service.NewMealService(geocoder, places, planner,
		service.WithPlacesLimit(cfg.Places.Limit),
		service.WithContactNormalizer(service.NewContactNormalizer(cfg.Planner.PhoneRegion)),
		service.WithPlanObserver(m),
	)
	form := service.NewFormValidator(cfg.Planner.MinBudget, cfg.Planner.Currency)

	store := session.NewStore(cfg.Session.Capacity, cfg.Session.TTL)
	tokens := auth.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = handler.NewTemplateRenderer()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e,
		middlewarepkg.Session(store, tokens, middlewarepkg.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}),
		router.Handlers{
			Page:    handler.NewPageHandler(meals, form, cfg.Planner.Currency, cfg.Planner.MinBudget),
			Plan:    handler.NewPlanHandler(meals, form),
			Metrics: m.Handler(),
		},
	)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("model", cfg.Chat.Model).Msg("starting server")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
