package upcscan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoStartGuard is returned when the scan line does not begin with a bar.
	ErrNoStartGuard = errors.New("no start guard")

	// ErrMalformedBar is returned when a bar-width window holds mixed pixel values.
	ErrMalformedBar = errors.New("malformed bar")

	// ErrUnexpectedBitLength is returned when the scan line does not sample to 95 bits.
	ErrUnexpectedBitLength = errors.New("unexpected bit length")

	// ErrInvalidGuardPattern is returned when a start, center or end guard does not match.
	ErrInvalidGuardPattern = errors.New("invalid guard pattern")

	// ErrUnknownCodeword is returned when a 7-bit codeword is absent from its symbol table.
	ErrUnknownCodeword = errors.New("unknown codeword")

	// ErrChecksumMismatch is returned when a structurally valid code fails the modulus-10 check.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidPixel is returned when a scan line holds a value other than 0 or 1.
	ErrInvalidPixel = errors.New("invalid pixel value")

	// ErrWriter is returned when contents cannot be encoded.
	ErrWriter = errors.New("writer error")
)

// PixelError reports a pixel value outside {0, 1}.
type PixelError struct {
	Index int
	Value byte
}

func (e *PixelError) Error() string {
	return fmt.Sprintf("invalid pixel value %d at index %d", e.Value, e.Index)
}

func (e *PixelError) Unwrap() error { return ErrInvalidPixel }

// MalformedBarError reports the sampling window that was not uniform.
type MalformedBarError struct {
	Window   int
	BarWidth int
}

func (e *MalformedBarError) Error() string {
	return fmt.Sprintf("malformed bar: window %d holds mixed values for bar width %d", e.Window, e.BarWidth)
}

func (e *MalformedBarError) Unwrap() error { return ErrMalformedBar }

// BitLengthError reports a scan line that does not hold exactly 95 bars.
type BitLengthError struct {
	Bits   int
	Pixels int
}

func (e *BitLengthError) Error() string {
	return fmt.Sprintf("unexpected bit length: %d pixels sample to %d bits, want %d", e.Pixels, e.Bits, CodeWidth)
}

func (e *BitLengthError) Unwrap() error { return ErrUnexpectedBitLength }

// Guard identifies one of the three fixed guard patterns.
type Guard int

const (
	GuardStart Guard = iota
	GuardCenter
	GuardEnd
)

// String returns the name of the guard.
func (g Guard) String() string {
	switch g {
	case GuardStart:
		return "start"
	case GuardCenter:
		return "center"
	case GuardEnd:
		return "end"
	default:
		return "unknown"
	}
}

// GuardError reports failing guard patterns. Which is the first failing guard in
// scan order; Failed lists every guard that did not match.
type GuardError struct {
	Which  Guard
	Failed []Guard
}

func (e *GuardError) Error() string {
	names := make([]string, len(e.Failed))
	for i, g := range e.Failed {
		names[i] = g.String()
	}
	return fmt.Sprintf("invalid guard pattern: %s guard (failed: %s)", e.Which, strings.Join(names, ", "))
}

func (e *GuardError) Unwrap() error { return ErrInvalidGuardPattern }

// Side identifies a half of the symbol.
type Side int

const (
	// SideLeft holds the odd-parity codewords before the center guard.
	SideLeft Side = iota
	// SideRight holds the even-parity codewords after the center guard.
	SideRight
)

// String returns the name of the side.
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// CodewordError reports a codeword with no entry in its symbol table.
type CodewordError struct {
	Side     Side
	Position int
	Value    int
}

func (e *CodewordError) Error() string {
	return fmt.Sprintf("unknown %s codeword %d at position %d", e.Side, e.Value, e.Position)
}

func (e *CodewordError) Unwrap() error { return ErrUnknownCodeword }

// ChecksumError reports a failed modulus-10 check. The decoded digits are kept
// for diagnostics.
type ChecksumError struct {
	Digits     []int
	CheckDigit int
	Sum        int
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: digits %s check %d sum %d", digitString(e.Digits), e.CheckDigit, e.Sum)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

func digitString(digits []int) string {
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		sb.WriteByte(byte('0' + d))
	}
	return sb.String()
}
