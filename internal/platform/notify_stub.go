//go:build !linux && !darwin && !windows

package platform

import (
	"fmt"
	"runtime"
)

// Notify reports that desktop notifications are unavailable on this platform.
func Notify(title, body string, opts Options) error {
	return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
}
