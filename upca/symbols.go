package upca

import upcscan "github.com/ericlevine/upcscan"

// oddCodewords holds the left-half (odd parity, "L") encoding of each digit as a
// 7-bit value, first module most significant.
var oddCodewords = [10]uint32{
	0b0001101, // 0 = 13
	0b0011001, // 1 = 25
	0b0010011, // 2 = 19
	0b0111101, // 3 = 61
	0b0100011, // 4 = 35
	0b0110001, // 5 = 49
	0b0101111, // 6 = 47
	0b0111011, // 7 = 59
	0b0110111, // 8 = 55
	0b0001011, // 9 = 11
}

// evenCodewords holds the right-half (even parity, "R") encoding of each digit.
// Each entry is the complement of the matching odd codeword.
var evenCodewords = [10]uint32{
	0b1110010, // 0 = 114
	0b1100110, // 1 = 102
	0b1101100, // 2 = 108
	0b1000010, // 3 = 66
	0b1011100, // 4 = 92
	0b1001110, // 5 = 78
	0b1010000, // 6 = 80
	0b1000100, // 7 = 68
	0b1001000, // 8 = 72
	0b1110100, // 9 = 116
}

func codewordTable(side upcscan.Side) *[10]uint32 {
	if side == upcscan.SideLeft {
		return &oddCodewords
	}
	return &evenCodewords
}

// lookupDigit maps a codeword to its digit, or -1 when the table has no entry.
func lookupDigit(side upcscan.Side, codeword uint32) int {
	for digit, c := range codewordTable(side) {
		if c == codeword {
			return digit
		}
	}
	return -1
}
