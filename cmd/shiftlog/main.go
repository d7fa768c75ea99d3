package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/shiftlog/internal/cli"
	"github.com/alexanderramin/shiftlog/internal/config"
	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/events"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Getenv("SHIFTLOG_CONFIG"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the time log store: Postgres when a URL is configured, else SQLite.
	var store repository.TimeLogStore
	if cfg.UsesPostgres() {
		pool, err := repository.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg := repository.NewPostgresTimeLogStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing postgres schema: %w", err)
		}
		store = pg
	} else {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store = repository.NewSQLiteTimeLogStore(database, db.NewSQLiteUnitOfWork(database))
	}
	markers := repository.NewFileMarkerStore(cfg.StatePath)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr, cfg.Verbose)
	}

	// Session events go to RabbitMQ only when a broker is configured. An
	// unreachable broker never blocks clocking.
	var listeners []service.SessionObserver
	if cfg.AMQPURL != "" {
		conn, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: session events disabled: %v\n", err)
		} else {
			defer conn.Close()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			pub, err := events.NewRabbitPublisher(conn.Channel, cfg.AMQPExchange, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: session events disabled: %v\n", err)
			} else {
				listeners = append(listeners, pub)
			}
		}
	}

	user := domain.UserProfile{ID: cfg.UserID, DisplayName: cfg.DisplayName, Timezone: cfg.Timezone}
	tracker, err := service.NewTracker(store, markers, user, service.TrackerOptions{
		MaxShift:      cfg.MaxShift,
		ResetInterval: cfg.ResetPollInterval,
		Observer:      observer,
		Listeners:     listeners,
	})
	if err != nil {
		return err
	}
	defer tracker.Close()

	app := &cli.App{
		Tracker:    tracker,
		Reports:    service.NewReportService(store, nil, observer),
		MaxShift:   cfg.MaxShift,
		PromptNote: cli.HuhNotePrompter,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
