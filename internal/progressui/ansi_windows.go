//go:build windows

package progressui

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableANSIOnWindows turns on Virtual Terminal processing so cursor
// movement and bar redraws render instead of printing raw escape codes.
func enableANSIOnWindows(f *os.File) {
	handle := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err == nil {
		_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
