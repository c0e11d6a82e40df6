package upca

import (
	"fmt"

	upcscan "github.com/ericlevine/upcscan"
)

// Writer encodes UPC-A symbols.
type Writer struct{}

// NewWriter creates a new UPC-A writer.
func NewWriter() *Writer {
	return &Writer{}
}

// EncodeContents encodes 11 digits (the check digit is computed) or 12 digits
// (the check digit is verified) into the 95 modules of a UPC-A symbol, true
// for a bar.
func (w *Writer) EncodeContents(contents string) ([]bool, error) {
	contents, err := checkLength(contents)
	if err != nil {
		return nil, err
	}
	digits, err := parseDigits(contents)
	if err != nil {
		return nil, err
	}

	result := make([]bool, upcscan.CodeWidth)
	pos := appendPattern(result, 0, startEndPattern)
	for _, d := range digits[:upcscan.DigitsPerSide] {
		pos += appendCodeword(result, pos, oddCodewords[d])
	}
	pos += appendPattern(result, pos, centerPattern)
	for _, d := range digits[upcscan.DigitsPerSide:] {
		pos += appendCodeword(result, pos, evenCodewords[d])
	}
	appendPattern(result, pos, startEndPattern)
	return result, nil
}

// EncodeScanLine encodes contents as a scan line with every module repeated
// barWidth times and no quiet zone.
func (w *Writer) EncodeScanLine(contents string, barWidth int) (upcscan.ScanLine, error) {
	if barWidth < 1 {
		return nil, fmt.Errorf("bar width must be positive, got %d: %w", barWidth, upcscan.ErrWriter)
	}
	modules, err := w.EncodeContents(contents)
	if err != nil {
		return nil, err
	}
	return RenderScanLine(modules, barWidth), nil
}

// RenderScanLine repeats each module barWidth times.
func RenderScanLine(modules []bool, barWidth int) upcscan.ScanLine {
	line := make(upcscan.ScanLine, 0, len(modules)*barWidth)
	for _, m := range modules {
		var v byte
		if m {
			v = 1
		}
		for j := 0; j < barWidth; j++ {
			line = append(line, v)
		}
	}
	return line
}

// checkLength appends or verifies the check digit.
func checkLength(contents string) (string, error) {
	switch len(contents) {
	case dataDigits:
		check, err := CheckDigit(contents)
		if err != nil {
			return "", err
		}
		return contents + string(rune('0'+check)), nil
	case dataDigits + 1:
		check, err := CheckDigit(contents[:dataDigits])
		if err != nil {
			return "", err
		}
		if int(contents[dataDigits]-'0') != check {
			return "", fmt.Errorf("contents do not pass checksum: %w", upcscan.ErrWriter)
		}
		return contents, nil
	default:
		return "", fmt.Errorf("requested contents should be %d or %d digits long, but got %d: %w",
			dataDigits, dataDigits+1, len(contents), upcscan.ErrWriter)
	}
}

func appendPattern(target []bool, pos int, pattern []bool) int {
	copy(target[pos:], pattern)
	return len(pattern)
}

func appendCodeword(target []bool, pos int, codeword uint32) int {
	for i := 0; i < upcscan.DigitWidth; i++ {
		target[pos+i] = codeword&(1<<uint(upcscan.DigitWidth-1-i)) != 0
	}
	return upcscan.DigitWidth
}
