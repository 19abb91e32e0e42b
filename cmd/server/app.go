package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/config"
	"github.com/phrazzld/lingual/internal/events"
	"github.com/phrazzld/lingual/internal/flash"
	"github.com/phrazzld/lingual/internal/page"
	"github.com/phrazzld/lingual/internal/platform/lessonapi"
	"github.com/phrazzld/lingual/internal/quiz/session"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  clock.Clock

	eventEmitter *events.InMemoryEventEmitter
	board        *page.Board
	flash        *flash.Manager
	lessons      *lessonapi.Client
	quizzes      *session.Engine
}

// newApplication wires every component from cfg.
func newApplication(cfg *config.Config, logger *slog.Logger, clk clock.Clock) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		clock:  clk,
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger))

	app.board = page.NewBoard()

	app.flash = flash.NewManager(app.board, clk, flash.Config{
		Duration:      cfg.Flash.Duration,
		Stagger:       cfg.Flash.Stagger,
		FadeDuration:  cfg.Flash.FadeDuration,
		FrameInterval: cfg.Flash.FrameInterval,
		Resume:        flash.ResumePolicy(cfg.Flash.ResumePolicy),
		Replenish:     cfg.Flash.Replenish,
	}, logger, app.eventEmitter)

	var err error
	app.lessons, err = lessonapi.NewClient(cfg.Quiz.APIBaseURL, cfg.Quiz.FetchTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson API client: %w", err)
	}

	app.quizzes = session.NewEngine(app.lessons, app.board, clk, session.Config{
		LockDelay:    cfg.Quiz.LockDelay,
		FetchTimeout: cfg.Quiz.FetchTimeout,
	}, logger, session.WithEmitter(app.eventEmitter))

	logger.Info("Application initialized successfully",
		"lesson_api", cfg.Quiz.APIBaseURL)
	return app, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops every pending notification and quiz timer.
func (app *application) cleanup() {
	app.flash.Close()
	app.quizzes.Close()
	app.logger.Info("Application shutdown completed")
}
