//go:build windows

package platform

import (
	"errors"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procSendInput        = user32.NewProc("SendInput")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
	procMonitorFromPoint = user32.NewProc("MonitorFromPoint")
	procGetMonitorInfoW  = user32.NewProc("GetMonitorInfoW")
)

const (
	inputMouse = 0

	mouseeventfMove        = 0x0001
	mouseeventfVirtualDesk = 0x4000
	mouseeventfAbsolute    = 0x8000

	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCxVirtualScreen = 78
	smCyVirtualScreen = 79

	monitorDefaultToNearest = 0x00000002

	// Absolute input coordinates span 0..65535 across the virtual desktop.
	absoluteScale = 65536
)

type winPoint struct {
	X, Y int32
}

type winRect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfo struct {
	cbSize    uint32
	rcMonitor winRect
	rcWork    winRect
	dwFlags   uint32
}

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	mi        mouseInput
}

// errNoDetail marks a failure for which Windows reported no error code.
var errNoDetail = errors.New("")

// lastError keeps the OS text when there is one.
func lastError(err error) error {
	var errno windows.Errno
	if err == nil || (errors.As(err, &errno) && errno == 0) {
		return errNoDetail
	}
	return err
}

type windowsCursor struct {
	log zerolog.Logger
}

func newCursor(log zerolog.Logger, _ Options) (Cursor, error) {
	if err := user32.Load(); err != nil {
		return nil, err
	}
	return &windowsCursor{log: log}, nil
}

func checkCapability() Capability {
	if err := user32.Load(); err != nil {
		return Capability{ErrorMessage: err.Error()}
	}
	return Capability{CanControl: true}
}

func (c *windowsCursor) Name() string { return "user32" }

func (c *windowsCursor) Close() error { return nil }

func (c *windowsCursor) Position() (motion.Point, error) {
	var p winPoint
	if r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p))); r == 0 {
		return motion.Point{}, lastError(err)
	}
	return motion.Point{X: int(p.X), Y: int(p.Y)}, nil
}

func (c *windowsCursor) Move(dx, dy int) error {
	return sendMouse(mouseInput{dx: int32(dx), dy: int32(dy), dwFlags: mouseeventfMove})
}

func (c *windowsCursor) Relocate(p motion.Point) error {
	left := systemMetric(smXVirtualScreen)
	top := systemMetric(smYVirtualScreen)
	width := systemMetric(smCxVirtualScreen)
	height := systemMetric(smCyVirtualScreen)
	if width <= 0 || height <= 0 {
		return errNoDetail
	}

	return sendMouse(mouseInput{
		dx:      int32((p.X - left) * absoluteScale / width),
		dy:      int32((p.Y - top) * absoluteScale / height),
		dwFlags: mouseeventfMove | mouseeventfAbsolute | mouseeventfVirtualDesk,
	})
}

func (c *windowsCursor) WorkArea(p motion.Point) (motion.WorkArea, error) {
	// POINT is passed by value, packed into one register on amd64 and arm64.
	packed := uintptr(uint32(int32(p.X))) | uintptr(uint32(int32(p.Y)))<<32
	monitor, _, err := procMonitorFromPoint.Call(packed, monitorDefaultToNearest)
	if monitor == 0 {
		return motion.WorkArea{}, lastError(err)
	}

	info := monitorInfo{}
	info.cbSize = uint32(unsafe.Sizeof(info))
	if r, _, err := procGetMonitorInfoW.Call(monitor, uintptr(unsafe.Pointer(&info))); r == 0 {
		return motion.WorkArea{}, lastError(err)
	}
	return motion.WorkArea{
		Left:   int(info.rcWork.Left),
		Top:    int(info.rcWork.Top),
		Right:  int(info.rcWork.Right),
		Bottom: int(info.rcWork.Bottom),
	}, nil
}

func sendMouse(mi mouseInput) error {
	in := input{inputType: inputMouse, mi: mi}
	r, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if r == 0 {
		return lastError(err)
	}
	return nil
}

func systemMetric(index int) int {
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(r))
}
