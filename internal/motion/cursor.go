package motion

import (
	"errors"
	"fmt"
)

// Cursor is the platform boundary the engine drives. Implementations
// return an error carrying the operating system's message whenever a
// call is rejected.
type Cursor interface {
	Position() (Point, error)
	Move(dx, dy int) error
	Relocate(p Point) error
	WorkArea(p Point) (WorkArea, error)
}

// Op names the cursor operation that failed.
type Op string

const (
	OpPosition Op = "get the cursor position"
	OpMove     Op = "move the cursor"
	OpRelocate Op = "relocate the cursor"
	OpWorkArea Op = "get the cursor work area"
)

// ExternalError is returned when the platform rejects a cursor call.
// It is fatal for the run that produced it.
type ExternalError struct {
	Op  Op
	Err error
}

func (e *ExternalError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return fmt.Sprintf("unable to %s", e.Op)
	}
	return fmt.Sprintf("unable to %s: %s", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// IsExternal reports whether err came from the cursor boundary.
func IsExternal(err error) bool {
	var ext *ExternalError
	return errors.As(err, &ext)
}

func position(c Cursor) (Point, error) {
	p, err := c.Position()
	if err != nil {
		return Point{}, &ExternalError{Op: OpPosition, Err: err}
	}
	return p, nil
}

func move(c Cursor, dx, dy int) error {
	if err := c.Move(dx, dy); err != nil {
		return &ExternalError{Op: OpMove, Err: err}
	}
	return nil
}

func relocate(c Cursor, p Point) error {
	if err := c.Relocate(p); err != nil {
		return &ExternalError{Op: OpRelocate, Err: err}
	}
	return nil
}

func workArea(c Cursor, p Point) (WorkArea, error) {
	area, err := c.WorkArea(p)
	if err != nil {
		return WorkArea{}, &ExternalError{Op: OpWorkArea, Err: err}
	}
	return area, nil
}
