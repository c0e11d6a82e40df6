package upcscan

import (
	"fmt"
	"unicode"
)

// ParseScanLine parses a textual scan line of '0' and '1' characters.
// Whitespace is ignored.
func ParseScanLine(s string) (ScanLine, error) {
	line := make(ScanLine, 0, len(s))
	for i, r := range s {
		switch {
		case r == '0':
			line = append(line, 0)
		case r == '1':
			line = append(line, 1)
		case unicode.IsSpace(r):
		default:
			return nil, fmt.Errorf("invalid character %q at offset %d: %w", r, i, ErrInvalidPixel)
		}
	}
	return line, nil
}

// TrimQuietZone returns the sub-slice of line between the first and last bar,
// dropping the white margins around a symbol taken from an image.
func TrimQuietZone(line ScanLine) ScanLine {
	start := 0
	for start < len(line) && line[start] == 0 {
		start++
	}
	end := len(line)
	for end > start && line[end-1] == 0 {
		end--
	}
	return line[start:end]
}
