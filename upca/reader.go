// Package upca decodes and encodes UPC-A symbols on binarized scan lines.
//
// Decoding is a single linear pass: bar width detection, orientation
// correction, module sampling, guard validation, codeword lookup and the
// modulus-10 check. Every stage fails fast with a typed error from the
// upcscan package; nothing is retried.
package upca

import (
	"go.uber.org/zap"

	upcscan "github.com/ericlevine/upcscan"
	"github.com/ericlevine/upcscan/bitutil"
)

// dataDigits is the number of digits returned before the check digit.
const dataDigits = 2*upcscan.DigitsPerSide - 1

// Reader decodes UPC-A scan lines. A Reader holds no per-call state and is safe
// for concurrent use.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new UPC-A reader logging stage diagnostics to logger.
// A nil logger discards them.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

var (
	_ upcscan.RowDecoder = (*Reader)(nil)

	defaultReader = NewReader(nil)
)

// Decode decodes a scan line into its 11 data digits.
func Decode(line []byte) (string, error) {
	result, err := defaultReader.DecodeRow(upcscan.ScanLine(line), nil)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// DecodeRow decodes a UPC-A symbol spanning the whole scan line. The line must
// start with the first bar of the start guard and hold exactly 95 modules.
func (r *Reader) DecodeRow(line upcscan.ScanLine, opts *upcscan.DecodeOptions) (*upcscan.Result, error) {
	if opts == nil {
		opts = &upcscan.DecodeOptions{}
	}
	result, err := r.decode(line, opts)
	if err != nil {
		r.logger.Debug("decode failed", zap.Int("pixels", len(line)), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("decoded",
		zap.String("text", result.Text),
		zap.Int("checkDigit", result.CheckDigit),
		zap.Bool("reversed", result.Reversed))
	return result, nil
}

func (r *Reader) decode(line upcscan.ScanLine, opts *upcscan.DecodeOptions) (*upcscan.Result, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}

	width := barWidth(line)
	r.logger.Debug("detected bar width", zap.Int("barWidth", width))
	if width == 0 {
		return nil, upcscan.ErrNoStartGuard
	}

	canonical, reversed, err := r.correctOrientation(line, width)
	if err != nil {
		return nil, err
	}
	if reversed {
		width = barWidth(canonical)
		if width == 0 {
			return nil, upcscan.ErrNoStartGuard
		}
	}

	bits, err := sampleBits(canonical, width)
	if err != nil {
		return nil, err
	}
	if err := checkGuards(bits, r.logger); err != nil {
		return nil, err
	}

	left, err := decodeSide(bits, upcscan.SideLeft)
	if err != nil {
		return nil, err
	}
	right, err := decodeSide(bits, upcscan.SideRight)
	if err != nil {
		return nil, err
	}

	// The last right-hand digit is the check digit and is not part of the code.
	checkDigit := right[len(right)-1]
	digits := append(left, right[:len(right)-1]...)
	r.logger.Debug("decoded digits", zap.Ints("digits", digits), zap.Int("checkDigit", checkDigit))

	if err := verifyChecksum(digits, checkDigit); err != nil {
		return nil, err
	}

	result := upcscan.NewResult(digits, checkDigit, opts.AppendCheckDigit)
	result.BarWidth = width
	result.Reversed = reversed
	result.Bits = bits
	return result, nil
}

// barWidth counts the leading bar pixels, which form the first module of the
// start guard.
func barWidth(line upcscan.ScanLine) int {
	n := 0
	for n < len(line) && line[n] == 1 {
		n++
	}
	return n
}

// correctOrientation reads the first codeword after the start guard. Left-hand
// codewords have odd parity; an even one means the line was scanned right to
// left, and a reversed copy is returned. The input is never modified.
func (r *Reader) correctOrientation(line upcscan.ScanLine, width int) (upcscan.ScanLine, bool, error) {
	end := leftOffset + upcscan.DigitWidth
	if len(line) < end*width {
		return nil, false, &upcscan.BitLengthError{Bits: len(line) / width, Pixels: len(line)}
	}
	first := bitutil.NewBitArray(upcscan.DigitWidth)
	for i := leftOffset; i < end; i++ {
		v, err := sampleWindow(line, i, width)
		if err != nil {
			return nil, false, err
		}
		if v == 1 {
			first.Set(i - leftOffset)
		}
	}
	r.logger.Debug("first codeword", zap.Uint32("codeword", first.Uint(0, upcscan.DigitWidth)))
	if first.OnesCount()%2 == 1 {
		return line, false, nil
	}
	r.logger.Debug("reversing scan line")
	return line.Reversed(), true, nil
}

// sampleBits collapses each bar-width window of pixels into one module.
func sampleBits(line upcscan.ScanLine, width int) (*bitutil.BitArray, error) {
	n := len(line) / width
	if n != upcscan.CodeWidth || len(line)%width != 0 {
		return nil, &upcscan.BitLengthError{Bits: n, Pixels: len(line)}
	}
	bits := bitutil.NewBitArray(n)
	for i := 0; i < n; i++ {
		v, err := sampleWindow(line, i, width)
		if err != nil {
			return nil, err
		}
		if v == 1 {
			bits.Set(i)
		}
	}
	return bits, nil
}

// sampleWindow returns the value of window i, which must be uniform.
func sampleWindow(line upcscan.ScanLine, i, width int) (byte, error) {
	window := line[i*width : (i+1)*width]
	for _, p := range window[1:] {
		if p != window[0] {
			return 0, &upcscan.MalformedBarError{Window: i, BarWidth: width}
		}
	}
	return window[0], nil
}
