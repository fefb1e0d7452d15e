//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

// WriteImage is unsupported on this platform.
func WriteImage(image.Image) error {
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}

// WriteText is unsupported on this platform.
func WriteText(string) error {
	return fmt.Errorf("clipboard text operations are not supported on this platform")
}
