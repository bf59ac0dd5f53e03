package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/overtake/internal/assistant"
	"codeberg.org/mutker/overtake/internal/config"
	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/history"
	"codeberg.org/mutker/overtake/internal/logger"
	"codeberg.org/mutker/overtake/internal/monitor"
	"codeberg.org/mutker/overtake/internal/pid"
	"codeberg.org/mutker/overtake/internal/report"
	"codeberg.org/mutker/overtake/internal/server"
	"codeberg.org/mutker/overtake/internal/speech"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"codeberg.org/mutker/overtake/internal/timing"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Level(), logger.IsService())
	logger.Debug().Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx, cfg); err != nil {
		logger.ErrorWithCode(err).Msg("Exiting with error")
		cancel()
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func run(ctx context.Context, cfg *config.Config) error {
	errFactory := errors.New()

	provider, err := telemetry.NewProvider(cfg.TelemetryConfig(), telemetry.DefaultSnapshot())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	if cfg.Once {
		return once(ctx, cfg, provider)
	}

	pidFile := pid.New("")
	if err := pidFile.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	recorder, err := history.NewRecorder(cfg.HistoryConfig(), logger.For("history"))
	if err != nil {
		return errFactory.Wrap(errors.ErrInitHistory, err)
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close history recorder")
		}
	}()

	store := monitor.NewStore()
	srv, err := server.New(cfg.ServerConfig(), store, assistant.NewKeywordResponder())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	mon := monitor.New(cfg.MonitorConfig(), provider, store,
		monitor.WithRecorder(recorder),
		monitor.WithAnnouncer(speech.New(cfg.SpeechConfig())),
		monitor.WithPublisher(srv.Hub()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := mon.Run(gctx); err != nil {
			return errFactory.Wrap(errors.ErrMainLoop, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.Start(gctx); err != nil {
			return errFactory.Wrap(errors.ErrServerFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// once evaluates a single snapshot and prints the report
func once(ctx context.Context, cfg *config.Config, provider telemetry.Provider) error {
	mon := monitor.New(cfg.MonitorConfig(), provider, monitor.NewStore())

	st, err := mon.Tick(ctx)
	if err != nil {
		return errors.New().Wrap(errors.ErrMainLoop, err)
	}

	report.Write(os.Stdout, st, timing.DefaultSession())
	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
