package upca

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	upcscan "github.com/ericlevine/upcscan"
)

var validCodes = []string{
	"036000291452",
	"012345678905",
	"123456789012",
	"042100005264",
	"884421003419",
	"790000080002",
}

// encodeLine renders a valid code as a scan line at the given bar width.
func encodeLine(t *testing.T, contents string, barWidth int) upcscan.ScanLine {
	t.Helper()
	line, err := NewWriter().EncodeScanLine(contents, barWidth)
	require.NoError(t, err)
	return line
}

// encodeModules builds the 95 modules of 12 digits without checking the
// check digit, so that invalid codes can be produced.
func encodeModules(t *testing.T, contents string) []bool {
	t.Helper()
	require.Len(t, contents, 12)
	digits, err := parseDigits(contents)
	require.NoError(t, err)
	modules := make([]bool, upcscan.CodeWidth)
	pos := appendPattern(modules, 0, startEndPattern)
	for _, d := range digits[:6] {
		pos += appendCodeword(modules, pos, oddCodewords[d])
	}
	pos += appendPattern(modules, pos, centerPattern)
	for _, d := range digits[6:] {
		pos += appendCodeword(modules, pos, evenCodewords[d])
	}
	appendPattern(modules, pos, startEndPattern)
	return modules
}

func TestDecodeCanonicalExample(t *testing.T) {
	line := encodeLine(t, "036000291452", 2)
	require.Len(t, line, 190)

	text, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "03600029145", text)
}

func TestDecodeRoundTrip(t *testing.T) {
	reader := NewReader(nil)
	for _, code := range validCodes {
		t.Run(code, func(t *testing.T) {
			result, err := reader.DecodeRow(encodeLine(t, code, 1), nil)
			require.NoError(t, err)
			assert.Equal(t, code[:11], result.Text)
			assert.Equal(t, code, result.Code())
			assert.Equal(t, int(code[11]-'0'), result.CheckDigit)
			assert.Equal(t, upcscan.FormatUPCA, result.Format)
			assert.False(t, result.Reversed)
			assert.Equal(t, 1, result.BarWidth)
			assert.Equal(t, upcscan.CodeWidth, result.Bits.Size())
		})
	}
}

func TestDecodeBarWidthInvariance(t *testing.T) {
	reader := NewReader(nil)
	for _, code := range validCodes {
		for _, width := range []int{1, 2, 3, 5} {
			t.Run(fmt.Sprintf("%s/%d", code, width), func(t *testing.T) {
				line := encodeLine(t, code, width)
				require.Len(t, line, upcscan.CodeWidth*width)
				result, err := reader.DecodeRow(line, nil)
				require.NoError(t, err)
				assert.Equal(t, code[:11], result.Text)
				assert.Equal(t, width, result.BarWidth)
			})
		}
	}
}

func TestDecodeReversedScanLine(t *testing.T) {
	reader := NewReader(nil)
	for _, code := range validCodes {
		t.Run(code, func(t *testing.T) {
			line := encodeLine(t, code, 3)
			forward, err := reader.DecodeRow(line, nil)
			require.NoError(t, err)

			reversed := line.Reversed()
			original := append(upcscan.ScanLine(nil), reversed...)
			backward, err := reader.DecodeRow(reversed, nil)
			require.NoError(t, err)

			assert.Equal(t, forward.Text, backward.Text)
			assert.Equal(t, forward.Bits.String(), backward.Bits.String())
			assert.True(t, backward.Reversed)
			assert.Equal(t, original, reversed, "input must not be modified")
		})
	}
}

func TestDecodeAppendCheckDigit(t *testing.T) {
	result, err := NewReader(nil).DecodeRow(encodeLine(t, "036000291452", 2), &upcscan.DecodeOptions{AppendCheckDigit: true})
	require.NoError(t, err)
	assert.Equal(t, "036000291452", result.Text)
	assert.Equal(t, []int{0, 3, 6, 0, 0, 0, 2, 9, 1, 4, 5}, result.Digits)
}

func TestDecodeChecksumSensitivity(t *testing.T) {
	code := "036000291452"
	for i := 0; i < len(code); i++ {
		// Adding one to a digit changes the weighted sum by 1 or 3 modulo 10.
		d := (int(code[i]-'0') + 1) % 10
		bad := code[:i] + string(rune('0'+d)) + code[i+1:]
		t.Run(bad, func(t *testing.T) {
			line := RenderScanLine(encodeModules(t, bad), 2)
			_, err := Decode(line)
			require.ErrorIs(t, err, upcscan.ErrChecksumMismatch)

			var csErr *upcscan.ChecksumError
			require.True(t, errors.As(err, &csErr))
			assert.Len(t, csErr.Digits, 11)
			assert.Equal(t, int(bad[11]-'0'), csErr.CheckDigit)
			assert.NotZero(t, csErr.Sum%10)
		})
	}
}

func TestDecodeMalformedBar(t *testing.T) {
	line := encodeLine(t, "036000291452", 3)
	corrupted := append(upcscan.ScanLine(nil), line...)
	// Middle pixel of window 20.
	corrupted[20*3+1] ^= 1

	_, err := Decode(corrupted)
	require.ErrorIs(t, err, upcscan.ErrMalformedBar)
	var barErr *upcscan.MalformedBarError
	require.True(t, errors.As(err, &barErr))
	assert.Equal(t, 20, barErr.Window)
	assert.Equal(t, 3, barErr.BarWidth)
}

func TestDecodeMalformedBarInFirstCodeword(t *testing.T) {
	line := encodeLine(t, "036000291452", 2)
	corrupted := append(upcscan.ScanLine(nil), line...)
	corrupted[5*2+1] ^= 1

	_, err := Decode(corrupted)
	var barErr *upcscan.MalformedBarError
	require.True(t, errors.As(err, &barErr))
	assert.Equal(t, 5, barErr.Window)
}

func TestDecodeNoStartGuard(t *testing.T) {
	for _, line := range []upcscan.ScanLine{
		make(upcscan.ScanLine, 190),
		{},
		nil,
		append(upcscan.ScanLine{0}, encodeLine(t, "036000291452", 1)[1:]...),
	} {
		_, err := Decode(line)
		assert.ErrorIs(t, err, upcscan.ErrNoStartGuard)
	}
}

func TestDecodeUnexpectedBitLength(t *testing.T) {
	line := encodeLine(t, "036000291452", 1)

	_, err := Decode(append(line, 0))
	require.ErrorIs(t, err, upcscan.ErrUnexpectedBitLength)
	var lenErr *upcscan.BitLengthError
	require.True(t, errors.As(err, &lenErr))
	assert.Equal(t, 96, lenErr.Bits)
	assert.Equal(t, 96, lenErr.Pixels)

	_, err = Decode(line[:90])
	assert.ErrorIs(t, err, upcscan.ErrUnexpectedBitLength)

	_, err = Decode(upcscan.ScanLine{1, 1, 1, 1})
	assert.ErrorIs(t, err, upcscan.ErrUnexpectedBitLength)
}

func TestDecodeInvalidPixel(t *testing.T) {
	line := encodeLine(t, "036000291452", 1)
	line[40] = 255

	_, err := Decode(line)
	require.ErrorIs(t, err, upcscan.ErrInvalidPixel)
	var pixErr *upcscan.PixelError
	require.True(t, errors.As(err, &pixErr))
	assert.Equal(t, 40, pixErr.Index)
}

func TestDecodeInvalidCenterGuard(t *testing.T) {
	modules := encodeModules(t, "036000291452")
	// Center guard becomes 11010.
	modules[centerGuardOffset] = true

	_, err := Decode(RenderScanLine(modules, 2))
	require.ErrorIs(t, err, upcscan.ErrInvalidGuardPattern)
	var guardErr *upcscan.GuardError
	require.True(t, errors.As(err, &guardErr))
	assert.Equal(t, upcscan.GuardCenter, guardErr.Which)
	assert.Equal(t, []upcscan.Guard{upcscan.GuardCenter}, guardErr.Failed)
}

func TestDecodeReportsEveryFailingGuard(t *testing.T) {
	modules := encodeModules(t, "036000291452")
	modules[centerGuardOffset+2] = true
	modules[endGuardOffset+1] = true

	core, logs := observer.New(zap.DebugLevel)
	_, err := NewReader(zap.New(core)).DecodeRow(RenderScanLine(modules, 1), nil)

	var guardErr *upcscan.GuardError
	require.True(t, errors.As(err, &guardErr))
	assert.Equal(t, upcscan.GuardCenter, guardErr.Which)
	assert.Equal(t, []upcscan.Guard{upcscan.GuardCenter, upcscan.GuardEnd}, guardErr.Failed)

	checks := logs.FilterMessage("guard check").All()
	require.Len(t, checks, 3)
	assert.Equal(t, true, checks[0].ContextMap()["ok"])
	assert.Equal(t, false, checks[1].ContextMap()["ok"])
	assert.Equal(t, false, checks[2].ContextMap()["ok"])
	assert.Equal(t, 1, logs.FilterMessage("decode failed").Len())
}

func TestDecodeUnknownCodeword(t *testing.T) {
	t.Run("left", func(t *testing.T) {
		modules := encodeModules(t, "036000291452")
		// Odd parity but not a UPC-A codeword.
		appendCodeword(modules, leftOffset+upcscan.DigitWidth, 0b0000001)

		_, err := Decode(RenderScanLine(modules, 1))
		require.ErrorIs(t, err, upcscan.ErrUnknownCodeword)
		var cwErr *upcscan.CodewordError
		require.True(t, errors.As(err, &cwErr))
		assert.Equal(t, upcscan.SideLeft, cwErr.Side)
		assert.Equal(t, 1, cwErr.Position)
		assert.Equal(t, 1, cwErr.Value)
	})
	t.Run("right", func(t *testing.T) {
		modules := encodeModules(t, "036000291452")
		appendCodeword(modules, rightOffset+2*upcscan.DigitWidth, 0b1111000)

		_, err := Decode(RenderScanLine(modules, 1))
		var cwErr *upcscan.CodewordError
		require.True(t, errors.As(err, &cwErr))
		assert.Equal(t, upcscan.SideRight, cwErr.Side)
		assert.Equal(t, 2, cwErr.Position)
		assert.Equal(t, 120, cwErr.Value)
	})
}

func TestDecodeLogsOrientation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reader := NewReader(zap.New(core))

	_, err := reader.DecodeRow(encodeLine(t, "036000291452", 2).Reversed(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("reversing scan line").Len())
	assert.Equal(t, 1, logs.FilterMessage("decoded").Len())
}

func TestDecodeConcurrent(t *testing.T) {
	reader := NewReader(nil)
	lines := make([]upcscan.ScanLine, len(validCodes))
	for i, code := range validCodes {
		lines[i] = encodeLine(t, code, i%3+1)
	}

	var g errgroup.Group
	for n := 0; n < 8; n++ {
		for i := range lines {
			g.Go(func() error {
				result, err := reader.DecodeRow(lines[i], nil)
				if err != nil {
					return err
				}
				if result.Code() != validCodes[i] {
					return fmt.Errorf("got %s, want %s", result.Code(), validCodes[i])
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())
}

func TestSymbolTableParity(t *testing.T) {
	for d := 0; d < 10; d++ {
		odd := bitsSet(oddCodewords[d])
		even := bitsSet(evenCodewords[d])
		assert.Equal(t, 1, odd%2, "odd codeword for %d", d)
		assert.Equal(t, 0, even%2, "even codeword for %d", d)
		assert.Equal(t, d, lookupDigit(upcscan.SideLeft, oddCodewords[d]))
		assert.Equal(t, d, lookupDigit(upcscan.SideRight, evenCodewords[d]))
	}
	assert.Equal(t, -1, lookupDigit(upcscan.SideLeft, 114))
	assert.Equal(t, -1, lookupDigit(upcscan.SideRight, 13))
}

func bitsSet(v uint32) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}
