//go:build linux

package linux

import (
	"context"
	"strconv"
)

// MouseMover performs relative cursor moves.
type MouseMover interface {
	Move(dx, dy int) error
	Name() string
	// Synchronous reports whether the move is visible to the display
	// server by the time Move returns.
	Synchronous() bool
	Close() error
}

// UinputMover implements MouseMover for uinput.
type UinputMover struct {
	Sim *UinputSimulator
}

func (u *UinputMover) Move(dx, dy int) error {
	return u.Sim.Move(int32(dx), int32(dy))
}

func (u *UinputMover) Name() string      { return "uinput" }
func (u *UinputMover) Synchronous() bool { return false }
func (u *UinputMover) Close() error      { return u.Sim.Close() }

// CommandMover implements MouseMover for command-line tools.
type CommandMover struct {
	Run  Runner
	Cmd  string
	Args []string
}

func (c *CommandMover) Move(dx, dy int) error {
	args := append(append([]string{}, c.Args...), strconv.Itoa(dx), strconv.Itoa(dy))
	_, err := c.Run(context.Background(), c.Cmd, args...)
	return err
}

func (c *CommandMover) Name() string      { return c.Cmd }
func (c *CommandMover) Synchronous() bool { return true }
func (c *CommandMover) Close() error      { return nil }

// newXdotoolMover moves through XTest, which the X server applies
// before xdotool exits.
func newXdotoolMover(run Runner) *CommandMover {
	return &CommandMover{Run: run, Cmd: "xdotool", Args: []string{"mousemove_relative", "--"}}
}
