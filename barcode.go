// Package upcscan decodes UPC-A barcodes from a single binarized scan line.
package upcscan

import (
	"strings"
	"time"

	"github.com/ericlevine/upcscan/bitutil"
)

// Module layout of a UPC-A symbol.
const (
	StartGuardWidth  = 3
	CenterGuardWidth = 5
	EndGuardWidth    = 3
	DigitWidth       = 7
	DigitsPerSide    = 6

	// CodeWidth is the total number of modules in a UPC-A symbol.
	CodeWidth = StartGuardWidth + DigitsPerSide*DigitWidth + CenterGuardWidth + DigitsPerSide*DigitWidth + EndGuardWidth // = 95
)

// FormatUPCA is the only format this module decodes.
const FormatUPCA = "UPC_A"

// ScanLine is one row of binarized pixels, 1 for a bar (black) and 0 for a space.
// Callers own the slice; decoding never modifies it.
type ScanLine []byte

// Validate checks that every pixel is 0 or 1.
func (l ScanLine) Validate() error {
	for i, v := range l {
		if v > 1 {
			return &PixelError{Index: i, Value: v}
		}
	}
	return nil
}

// Reversed returns a new scan line with the pixels in reverse order.
func (l ScanLine) Reversed() ScanLine {
	out := make(ScanLine, len(l))
	for i, v := range l {
		out[len(l)-1-i] = v
	}
	return out
}

// String renders the scan line as a string of '0' and '1'.
func (l ScanLine) String() string {
	var sb strings.Builder
	sb.Grow(len(l))
	for _, v := range l {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Result encapsulates the result of decoding a scan line.
type Result struct {
	// Text is the decoded code: 11 digits, or 12 when the check digit is appended.
	Text string
	// Digits holds the 11 data digits in scan order.
	Digits []int
	// CheckDigit is the verified modulus-10 check digit.
	CheckDigit int
	// BarWidth is the number of pixels per module.
	BarWidth int
	// Reversed reports whether the scan line was read right to left.
	Reversed bool
	// Bits holds the 95 sampled modules in canonical orientation.
	Bits      *bitutil.BitArray
	Format    string
	Timestamp time.Time
}

// NewResult creates a new Result for the given digits.
func NewResult(digits []int, checkDigit int, appendCheck bool) *Result {
	text := digitString(digits)
	if appendCheck {
		text += string(rune('0' + checkDigit))
	}
	return &Result{
		Text:       text,
		Digits:     digits,
		CheckDigit: checkDigit,
		Format:     FormatUPCA,
		Timestamp:  time.Now(),
	}
}

// Code returns the standards-compliant 12-digit code regardless of how Text was built.
func (r *Result) Code() string {
	return digitString(r.Digits) + string(rune('0'+r.CheckDigit))
}
