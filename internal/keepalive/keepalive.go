package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stigoleg/keepalive-motion/internal/logging"
	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/platform"
)

// Health represents the outcome of the most recent session
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthFailed
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrAlreadyRunning is returned when a session is started twice.
var ErrAlreadyRunning = errors.New("keep-alive already running")

// defaultStopTimeout is how long the cursor may stay silent while a
// stop waits for the engine.
const defaultStopTimeout = 5 * time.Second

const stopPollInterval = 20 * time.Millisecond

// CursorFactory opens the cursor for a new session.
type CursorFactory func() (platform.Cursor, error)

// Status is a snapshot of the current or last session
type Status struct {
	motion.Status
	SessionID string
	Running   bool
	Started   time.Time
	Err       error
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithCursorFactory replaces the platform cursor.
func WithCursorFactory(f CursorFactory) Option {
	return func(k *Keeper) { k.open = f }
}

// WithClock replaces the system clock.
func WithClock(c motion.Clock) Option {
	return func(k *Keeper) { k.clock = c }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(k *Keeper) { k.log = log }
}

// WithStopTimeout bounds how long Stop waits for a cursor call to answer.
func WithStopTimeout(d time.Duration) Option {
	return func(k *Keeper) { k.stopTimeout = d }
}

// Keeper runs one motion session at a time
type Keeper struct {
	mu          sync.Mutex
	running     bool
	settings    motion.Settings
	open        CursorFactory
	clock       motion.Clock
	log         zerolog.Logger
	stopTimeout time.Duration

	// lastCall holds the unix nanos of the last cursor call that returned.
	lastCall atomic.Int64

	cancel  context.CancelFunc
	done    chan struct{}
	endTime time.Time
	status  Status
	health  Health
}

// New returns a Keeper drawing with the given settings.
func New(settings motion.Settings, opts ...Option) *Keeper {
	k := &Keeper{
		settings:    settings,
		clock:       motion.NewSystemClock(),
		log:         zerolog.Nop(),
		stopTimeout: defaultStopTimeout,
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.open == nil {
		log := logging.WithComponent(k.log, "platform")
		k.open = func() (platform.Cursor, error) {
			return platform.NewCursor(log, platform.Options{})
		}
	}
	k.done = make(chan struct{})
	close(k.done)
	return k
}

// IsRunning returns whether a session is active
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// SetSettings replaces the settings used by the next session.
func (k *Keeper) SetSettings(s motion.Settings) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.settings = s
}

// Settings returns the settings for the next session.
func (k *Keeper) Settings() motion.Settings {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.settings
}

// StartIndefinite starts a session that runs until stopped
func (k *Keeper) StartIndefinite() error {
	return k.start(0)
}

// StartTimed starts a session that stops by itself after d
func (k *Keeper) StartTimed(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", d)
	}
	return k.start(d)
}

func (k *Keeper) start(d time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}
	if err := k.settings.Validate(); err != nil {
		return fmt.Errorf("invalid motion settings: %w", err)
	}

	opened, err := k.open()
	if err != nil {
		return fmt.Errorf("open cursor: %w", err)
	}
	k.touch()
	cursor := &trackedCursor{Cursor: opened, touch: k.touch}

	id := uuid.NewString()
	log := k.log.With().Str("session", id).Logger()

	cleanup := NewCleanupManager(k.stopTimeout, log)
	cleanup.RegisterFunc("cursor "+cursor.Name(), cursor.Close)

	ctx, cancel := context.WithCancel(context.Background())
	engine := motion.NewEngine(cursor, k.clock, k.settings,
		motion.WithLogger(logging.WithComponent(log, "engine")),
		motion.WithObserver(func(st motion.Status) { k.observe(id, st) }),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	if d > 0 {
		g.Go(func() error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				log.Info().Dur("duration", d).Msg("Session time elapsed")
				cancel()
			case <-gctx.Done():
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := g.Wait()
		cancel()
		k.finish(id, err, cleanup)
	}()

	now := time.Now()
	k.running = true
	k.cancel = cancel
	k.done = done
	k.endTime = time.Time{}
	if d > 0 {
		k.endTime = now.Add(d)
	}
	k.status = Status{SessionID: id, Running: true, Started: now}
	k.health = HealthOK

	if d > 0 {
		log.Info().Dur("duration", d).Str("cursor", cursor.Name()).Msg("Keeper started (timed)")
	} else {
		log.Info().Str("cursor", cursor.Name()).Msg("Keeper started (indefinite)")
	}
	return nil
}

func (k *Keeper) observe(id string, st motion.Status) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.status.SessionID == id {
		k.status.Status = st
	}
}

func (k *Keeper) finish(id string, err error, cleanup *CleanupManager) {
	cleanupErr := cleanup.Execute()

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.status.SessionID != id {
		return
	}

	k.running = false
	k.cancel = nil
	k.status.Running = false
	k.status.State = motion.StateStopped
	k.status.Err = err

	log := k.log.With().Str("session", id).Logger()
	switch {
	case err != nil:
		k.health = HealthFailed
		log.Error().Err(err).Bool("external", motion.IsExternal(err)).Msg("Keeper stopped on error")
	case cleanupErr != nil:
		log.Warn().Err(cleanupErr).Msg("Keeper stopped, cleanup incomplete")
	default:
		log.Info().Msg("Keeper stopped")
	}
}

// Stop stops the session
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout stops the session and waits for the engine to finish
// its current figure. A figure drawn through a slow adapter may take far
// longer than timeout; the wait only gives up once no cursor call has
// returned for timeout.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}
	if timeout <= 0 {
		timeout = k.stopTimeout
	}
	cancel, done := k.cancel, k.done
	k.mu.Unlock()

	k.touch()
	cancel()

	ticker := time.NewTicker(min(stopPollInterval, timeout))
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if k.sinceLastCall() >= timeout {
				k.log.Warn().Dur("timeout", timeout).Msg("Keeper stop timeout exceeded, cursor not responding")
				return context.DeadlineExceeded
			}
		}
	}
}

func (k *Keeper) touch() {
	k.lastCall.Store(time.Now().UnixNano())
}

func (k *Keeper) sinceLastCall() time.Duration {
	return time.Since(time.Unix(0, k.lastCall.Load()))
}

// trackedCursor reports every cursor call that returns, so a stop can
// tell a slow adapter from a hung one.
type trackedCursor struct {
	platform.Cursor
	touch func()
}

func (c *trackedCursor) Position() (motion.Point, error) {
	defer c.touch()
	return c.Cursor.Position()
}

func (c *trackedCursor) Move(dx, dy int) error {
	defer c.touch()
	return c.Cursor.Move(dx, dy)
}

func (c *trackedCursor) Relocate(p motion.Point) error {
	defer c.touch()
	return c.Cursor.Relocate(p)
}

func (c *trackedCursor) WorkArea(p motion.Point) (motion.WorkArea, error) {
	defer c.touch()
	return c.Cursor.WorkArea(p)
}

// Done is closed when the current session ends.
func (k *Keeper) Done() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.done
}

// TimeRemaining returns the remaining duration for timed mode
func (k *Keeper) TimeRemaining() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running || k.endTime.IsZero() {
		return 0
	}
	return max(time.Until(k.endTime), 0)
}

// Status returns a snapshot of the current or last session
func (k *Keeper) Status() Status {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.status
}

// Health returns the outcome of the last session
func (k *Keeper) Health() Health {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.health
}

// Err returns the error that ended the last session, if any
func (k *Keeper) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.status.Err
}
