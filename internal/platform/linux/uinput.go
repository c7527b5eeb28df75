//go:build linux

package linux

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// uinput constants.
const (
	uinputDevicePath = "/dev/uinput"
	uinputBusTypeUSB = 0x03
	uinputVendorID   = 0x1234
	uinputProductID  = 0x5678
	uinputDeviceName = "keepalive-motion-mouse"

	// Linux input event types
	evSyn   = 0x00
	evKey   = 0x01
	evRel   = 0x02
	relX    = 0x00
	relY    = 0x01
	btnLeft = 0x110

	// uinput ioctl commands
	uiSetEvbit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeybit  = 0x40045565 // _IOW('U', 101, int)
	uiSetRelbit  = 0x40045566 // _IOW('U', 102, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)
)

type uinputUserDev struct {
	name [80]byte
	id   struct {
		bustype uint16
		vendor  uint16
		product uint16
		version uint16
	}
	ffEffectsMax uint32
	absmax       [64]int32
	absmin       [64]int32
	absfuzz      [64]int32
	absflat      [64]int32
}

type inputEvent struct {
	time  unix.Timeval
	etype uint16
	code  uint16
	value int32
}

// UinputSimulator is a virtual relative mouse created through the
// uinput kernel interface. Events it emits reach the display server
// asynchronously.
type UinputSimulator struct {
	file *os.File
}

// Setup creates the virtual device.
func (u *UinputSimulator) Setup() error {
	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY|unix.O_NONBLOCK, 0o660)
	if err != nil {
		return fmt.Errorf("failed to open uinput device: %w", err)
	}
	u.file = f
	fd := int(f.Fd())

	// libinput only treats the device as a pointer when it has a button.
	bits := []struct {
		req   uint
		value int
	}{
		{uiSetEvbit, evKey},
		{uiSetKeybit, btnLeft},
		{uiSetEvbit, evRel},
		{uiSetRelbit, relX},
		{uiSetRelbit, relY},
	}
	for _, b := range bits {
		if err := unix.IoctlSetInt(fd, b.req, b.value); err != nil {
			u.Close()
			return fmt.Errorf("failed to configure uinput device: %w", err)
		}
	}

	var dev uinputUserDev
	copy(dev.name[:], uinputDeviceName)
	dev.id.bustype = uinputBusTypeUSB
	dev.id.vendor = uinputVendorID
	dev.id.product = uinputProductID

	if _, err := f.Write(unsafe.Slice((*byte)(unsafe.Pointer(&dev)), unsafe.Sizeof(dev))); err != nil {
		u.Close()
		return fmt.Errorf("failed to describe uinput device: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		u.Close()
		return fmt.Errorf("failed to create uinput device: %w", err)
	}
	return nil
}

// Move emits one relative motion report.
func (u *UinputSimulator) Move(dx, dy int32) error {
	if u.file == nil {
		return os.ErrClosed
	}
	events := []inputEvent{
		{etype: evRel, code: relX, value: dx},
		{etype: evRel, code: relY, value: dy},
		{etype: evSyn, code: 0, value: 0},
	}
	for i := range events {
		ev := &events[i]
		if _, err := u.file.Write(unsafe.Slice((*byte)(unsafe.Pointer(ev)), unsafe.Sizeof(*ev))); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the virtual device.
func (u *UinputSimulator) Close() error {
	if u.file == nil {
		return nil
	}
	_ = unix.IoctlSetInt(int(u.file.Fd()), uiDevDestroy, 0)
	err := u.file.Close()
	u.file = nil
	return err
}
