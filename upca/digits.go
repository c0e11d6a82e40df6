package upca

import (
	upcscan "github.com/ericlevine/upcscan"
	"github.com/ericlevine/upcscan/bitutil"
)

// extractCodewords slices six 7-bit codewords out of bits starting at offset.
func extractCodewords(bits *bitutil.BitArray, offset int) [upcscan.DigitsPerSide]uint32 {
	var codewords [upcscan.DigitsPerSide]uint32
	for i := range codewords {
		codewords[i] = bits.Uint(offset+i*upcscan.DigitWidth, upcscan.DigitWidth)
	}
	return codewords
}

// decodeSide decodes the six digits of one half of the symbol. An unknown
// codeword aborts decoding.
func decodeSide(bits *bitutil.BitArray, side upcscan.Side) ([]int, error) {
	offset := leftOffset
	if side == upcscan.SideRight {
		offset = rightOffset
	}
	codewords := extractCodewords(bits, offset)
	digits := make([]int, 0, len(codewords))
	for i, c := range codewords {
		d := lookupDigit(side, c)
		if d < 0 {
			return nil, &upcscan.CodewordError{Side: side, Position: i, Value: int(c)}
		}
		digits = append(digits, d)
	}
	return digits, nil
}
