// Package motion draws a slow figure-eight with the cursor whenever the
// user has left it alone, keeping the session from going idle.
package motion

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Status is a snapshot of a running engine.
type Status struct {
	State         State
	Anchor        Point
	Figures       int
	Interruptions int
	DelayTicks    int64
	LastLobe      time.Duration
}

// Observer receives a Status every time the engine changes state or
// completes a figure. It is called on the engine's goroutine.
type Observer func(Status)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithObserver registers fn to receive status snapshots.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		e.observe = fn
	}
}

// Engine runs the keep-alive loop. An Engine is single use and all of
// its state is owned by the goroutine calling Run.
type Engine struct {
	cursor   Cursor
	clock    Clock
	settings Settings
	log      zerolog.Logger
	observe  Observer

	pacer   *Pacer
	figure  *FigureEight
	monitor *ActivityMonitor

	state         State
	anchor        Point
	figures       int
	interruptions int
}

// NewEngine wires an engine from validated settings.
func NewEngine(cursor Cursor, clock Clock, settings Settings, opts ...Option) *Engine {
	e := &Engine{
		cursor:   cursor,
		clock:    clock,
		settings: settings,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.pacer = NewPacer(clock, cursor, settings.TargetTicksPerStep(), settings.InitialStepDelayTicks)
	walker := NewWalker(cursor, e.pacer, settings.Radius, settings.DegreeIncrement)
	e.figure = NewFigureEight(walker, clock, settings.Radius, e.log)
	e.monitor = NewActivityMonitor(clock, cursor, settings.ActivityInterval, settings.QuietChecks)
	return e
}

// Run draws figures until ctx is cancelled or the cursor fails. A
// cancelled context is a clean stop and returns nil. Cancellation is
// noticed between figures and during idle waits, never in the middle
// of an arc.
func (e *Engine) Run(ctx context.Context) error {
	e.transition(StateStarting)
	if err := e.start(); err != nil {
		return e.fail(err)
	}

	for ctx.Err() == nil {
		e.transition(StateDrawing)
		done, err := e.figure.Draw(&e.anchor)
		if err != nil {
			return e.fail(err)
		}
		if done {
			e.figures++
			e.publish()
			continue
		}

		e.interruptions++
		e.log.Info().Stringer("anchor", e.anchor).Msg("Cursor moved by user, waiting for inactivity")
		e.transition(StateIdleWaiting)

		samples, err := e.monitor.WaitForInactivity(ctx, &e.anchor)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				break
			}
			return e.fail(err)
		}
		e.log.Info().
			Int("samples", samples).
			Stringer("anchor", e.anchor).
			Msg("User inactive, resuming")
	}

	e.transition(StateStopped)
	e.log.Info().Int("figures", e.figures).Int("interruptions", e.interruptions).Msg("Engine stopped")
	return nil
}

// start puts the cursor far enough from the work area edges for a whole
// figure to fit.
func (e *Engine) start() error {
	current, err := position(e.cursor)
	if err != nil {
		return err
	}
	area, err := workArea(e.cursor, current)
	if err != nil {
		return err
	}

	e.anchor = ResolveStart(current, area, e.settings.Diameter())
	e.log.Debug().
		Stringer("cursor", current).
		Stringer("area", area).
		Stringer("anchor", e.anchor).
		Msg("Start point resolved")

	return relocate(e.cursor, e.anchor)
}

func (e *Engine) fail(err error) error {
	e.log.Error().Err(err).Msg("Cursor operation failed")
	e.transition(StateStopped)
	return err
}

func (e *Engine) transition(s State) {
	e.state = s
	e.publish()
}

func (e *Engine) publish() {
	if e.observe == nil {
		return
	}
	e.observe(Status{
		State:         e.state,
		Anchor:        e.anchor,
		Figures:       e.figures,
		Interruptions: e.interruptions,
		DelayTicks:    e.pacer.Delay(),
		LastLobe:      e.figure.LastLobe(),
	})
}
