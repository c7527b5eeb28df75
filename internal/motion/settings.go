package motion

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	DefaultRadius                = 100
	DefaultDegreeIncrement       = 0.5
	DefaultTicksPerRevolution    = 20_000_000
	DefaultInitialStepDelayTicks = 25_000
	DefaultActivityInterval      = 5 * time.Second
	DefaultQuietChecks           = 6
)

// Settings tunes the figure and its pacing.
type Settings struct {
	// Radius of each lobe in pixels.
	Radius int
	// DegreeIncrement is the angular distance covered by one step.
	DegreeIncrement float64
	// TicksPerRevolution is the time budget for one full lobe.
	TicksPerRevolution int64
	// InitialStepDelayTicks seeds the pacer before it has measured anything.
	InitialStepDelayTicks int64
	// ActivityInterval is the gap between two idle samples.
	ActivityInterval time.Duration
	// QuietChecks is the number of consecutive still samples required
	// before drawing resumes.
	QuietChecks int
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		Radius:                DefaultRadius,
		DegreeIncrement:       DefaultDegreeIncrement,
		TicksPerRevolution:    DefaultTicksPerRevolution,
		InitialStepDelayTicks: DefaultInitialStepDelayTicks,
		ActivityInterval:      DefaultActivityInterval,
		QuietChecks:           DefaultQuietChecks,
	}
}

// Diameter is the margin kept between the anchor and the work area
// edges. Both lobes sit on the same side of the anchor's axis, so the
// figure spans two circle diameters.
func (s Settings) Diameter() int {
	return s.Radius * 2 * 2
}

// StepsPerRevolution is the number of steps in one lobe.
func (s Settings) StepsPerRevolution() int {
	return int(math.Round(360 / s.DegreeIncrement))
}

// TargetTicksPerStep is the per-step budget the pacer steers towards.
func (s Settings) TargetTicksPerStep() int64 {
	return TargetTicksPerStep(s.TicksPerRevolution, s.DegreeIncrement)
}

// Validate reports every setting that cannot drive an engine.
func (s Settings) Validate() error {
	var errs []error
	if s.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %d", s.Radius))
	}
	switch {
	case s.DegreeIncrement <= 0 || s.DegreeIncrement > 90:
		errs = append(errs, fmt.Errorf("degree increment must be in (0, 90], got %g", s.DegreeIncrement))
	case !wholeSteps(s.DegreeIncrement):
		errs = append(errs, fmt.Errorf("degree increment %g does not divide 360 evenly", s.DegreeIncrement))
	}
	if s.TicksPerRevolution <= 0 {
		errs = append(errs, fmt.Errorf("ticks per revolution must be positive, got %d", s.TicksPerRevolution))
	}
	if s.InitialStepDelayTicks < 0 {
		errs = append(errs, fmt.Errorf("initial step delay must not be negative, got %d", s.InitialStepDelayTicks))
	}
	if s.ActivityInterval <= 0 {
		errs = append(errs, fmt.Errorf("activity interval must be positive, got %s", s.ActivityInterval))
	}
	if s.QuietChecks < 1 {
		errs = append(errs, fmt.Errorf("quiet checks must be at least 1, got %d", s.QuietChecks))
	}
	return errors.Join(errs...)
}

func wholeSteps(increment float64) bool {
	steps := 360 / increment
	return math.Abs(steps-math.Round(steps)) < 1e-9
}
