package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CleanupManager releases session resources with a deadline
type CleanupManager struct {
	mu          sync.Mutex
	resources   []CleanupResource
	timeout     time.Duration
	log         zerolog.Logger
	cleanupOnce sync.Once
	err         error
}

// CleanupResource represents a resource that needs cleanup
type CleanupResource interface {
	Cleanup() error
	Name() string
}

// CleanupFunc is a function-based cleanup resource
type CleanupFunc struct {
	name string
	fn   func() error
}

func (c *CleanupFunc) Cleanup() error {
	return c.fn()
}

func (c *CleanupFunc) Name() string {
	return c.name
}

// ErrCleanupTimeout is returned when resources did not release in time.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// NewCleanupManager creates a new cleanup manager with the specified timeout
func NewCleanupManager(timeout time.Duration, log zerolog.Logger) *CleanupManager {
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}
	return &CleanupManager{timeout: timeout, log: log}
}

// Register adds a resource to be cleaned up
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(&CleanupFunc{name: name, fn: fn})
}

// Execute releases all registered resources, most recent first. It runs
// once; later calls return the first result.
func (cm *CleanupManager) Execute() error {
	cm.cleanupOnce.Do(func() {
		cm.err = cm.executeWithTimeout()
	})
	return cm.err
}

func (cm *CleanupManager) executeWithTimeout() error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	results := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(resources) - 1; i >= 0; i-- {
			errs = append(errs, cm.release(resources[i]))
		}
		results <- errors.Join(errs...)
	}()

	select {
	case err := <-results:
		return err
	case <-ctx.Done():
		cm.log.Warn().Dur("timeout", cm.timeout).Msg("Cleanup timed out, some resources may not have been released")
		return ErrCleanupTimeout
	}
}

func (cm *CleanupManager) release(resource CleanupResource) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic cleaning up %s: %v", resource.Name(), r)
			cm.log.Error().Str("resource", resource.Name()).Interface("panic", r).Msg("Cleanup panicked")
		}
	}()

	if err := resource.Cleanup(); err != nil {
		cm.log.Warn().Err(err).Str("resource", resource.Name()).Msg("Cleanup failed")
		return fmt.Errorf("clean up %s: %w", resource.Name(), err)
	}
	cm.log.Debug().Str("resource", resource.Name()).Msg("Cleaned up")
	return nil
}

// Clear removes all registered resources without executing cleanup
func (cm *CleanupManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = cm.resources[:0]
}
