package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stigoleg/keepalive-motion/internal/config"
	"github.com/stigoleg/keepalive-motion/internal/keepalive"
	"github.com/stigoleg/keepalive-motion/internal/logging"
	"github.com/stigoleg/keepalive-motion/internal/platform"
	"github.com/stigoleg/keepalive-motion/internal/ui"
)

const statusInterval = time.Minute

func (a *app) runRoot(cmd *cobra.Command, _ []string) error {
	m, err := a.loadConfig(cmd, bootLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	cfg := m.Get()

	length, err := cfg.SessionLength(time.Now())
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.LoggerConfig(config.DefaultLogFile()))
	if err != nil {
		return err
	}
	defer closer.Close()

	if c := a.capability(); !c.CanControl {
		msg := c.ErrorMessage
		if c.Instructions != "" {
			msg += "\n\n" + c.Instructions
		}
		return errors.New(msg)
	}

	keeper := a.newKeeper(cfg, log)
	a.watchConfig(m, keeper, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.UI.Headless {
		return runHeadless(ctx, keeper, length, log)
	}
	return runTUI(keeper, cfg.Timed(), length, log)
}

func (a *app) newKeeper(cfg *config.Config, log zerolog.Logger) *keepalive.Keeper {
	platformLog := logging.WithComponent(log, "platform")
	opts := []keepalive.Option{
		keepalive.WithLogger(logging.WithComponent(log, "keeper")),
		keepalive.WithCursorFactory(func() (platform.Cursor, error) {
			return platform.NewCursor(platformLog, platform.Options{Input: cfg.Platform.Input})
		}),
	}
	return keepalive.New(cfg.Settings(), append(opts, a.keeperOpts...)...)
}

// watchConfig applies edits of the config file to the next session.
func (a *app) watchConfig(m *config.Manager, keeper *keepalive.Keeper, log zerolog.Logger) {
	if m.FileUsed() == "" {
		return
	}
	m.OnConfigChange(func(c *config.Config) {
		keeper.SetSettings(c.Settings())
		log.Info().Msg("Motion settings updated, they apply to the next session")
	})
	if err := m.Watch(); err != nil {
		log.Warn().Err(err).Msg("Config file is not watched")
	}
}

// runHeadless draws in the foreground until a shutdown signal arrives or
// the session ends on its own.
func runHeadless(ctx context.Context, keeper *keepalive.Keeper, length time.Duration, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, shutdownSignals()...)
	defer stop()

	if err := start(keeper, length); err != nil {
		return err
	}
	done := keeper.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		select {
		case <-gctx.Done():
			log.Info().Msg("Shutting down")
			return keeper.Stop()
		case <-done:
			return keeper.Err()
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				st := keeper.Status()
				log.Info().
					Str("state", st.State.String()).
					Int("figures", st.Figures).
					Int("interruptions", st.Interruptions).
					Dur("remaining", keeper.TimeRemaining()).
					Msg("Status")
			}
		}
	})
	return g.Wait()
}

func start(keeper *keepalive.Keeper, length time.Duration) error {
	if length > 0 {
		return keeper.StartTimed(length)
	}
	return keeper.StartIndefinite()
}

func runTUI(keeper *keepalive.Keeper, timed bool, length time.Duration, log zerolog.Logger) error {
	var model ui.Model
	if timed {
		model = ui.InitialModelWithDuration(keeper, length)
	} else {
		model = ui.InitialModel(keeper)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals()...)
	defer signal.Stop(sigChan)

	finished := make(chan struct{})
	defer close(finished)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received signal")
			if err := keeper.Stop(); err != nil {
				log.Error().Err(err).Msg("Error stopping keep-alive")
			}
			p.Kill()
		case <-finished:
		}
	}()

	_, err := p.Run()
	if stopErr := keeper.Stop(); stopErr != nil {
		log.Error().Err(stopErr).Msg("Error stopping keep-alive")
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
