package outwriter

import (
	"os"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"golang.org/x/term"
)

// Bounds for the variable name column of tables.
const (
	minNameWidth = 15
	maxNameWidth = 70
)

// GetMaxNameWidth calculates the maximum width for variable names in table output
// based on terminal width and the space the other columns need.
func GetMaxNameWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	available := termWidth - reserved - 20
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
