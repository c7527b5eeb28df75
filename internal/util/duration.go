package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const durationHelp = "\n\nValid formats:\n" +
	"• Minutes: a plain number (e.g., '30', '120')\n" +
	"• Duration: Go duration syntax (e.g., '45m', '2h30m', '1h30m45s')"

// ParseDuration accepts either a whole number of minutes or a Go
// duration string. Negative values are rejected.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return 0, fmt.Errorf("invalid duration format: %s%s", input, durationHelp)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	duration, err := time.ParseDuration(input)
	if err != nil || duration < 0 {
		return 0, fmt.Errorf("invalid duration format: %s%s", input, durationHelp)
	}
	return duration, nil
}
