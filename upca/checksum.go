package upca

import (
	"fmt"

	upcscan "github.com/ericlevine/upcscan"
)

// weightedSum weights digits at even indices (0, 2, ...) by 3 and digits at odd
// indices by 1.
func weightedSum(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 0 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return sum
}

// verifyChecksum applies the modulus-10 check to the 11 data digits and the
// separately held check digit.
func verifyChecksum(digits []int, checkDigit int) error {
	sum := weightedSum(digits) + checkDigit
	if sum%10 != 0 {
		d := make([]int, len(digits))
		copy(d, digits)
		return &upcscan.ChecksumError{Digits: d, CheckDigit: checkDigit, Sum: sum}
	}
	return nil
}

// CheckDigit computes the UPC-A check digit for 11 data digits.
func CheckDigit(contents string) (int, error) {
	if len(contents) != dataDigits {
		return 0, fmt.Errorf("want %d digits, got %d: %w", dataDigits, len(contents), upcscan.ErrWriter)
	}
	digits, err := parseDigits(contents)
	if err != nil {
		return 0, err
	}
	return (10 - weightedSum(digits)%10) % 10, nil
}

func parseDigits(s string) ([]int, error) {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("contents contain non-digit character: %c: %w", s[i], upcscan.ErrWriter)
		}
		digits[i] = int(s[i] - '0')
	}
	return digits, nil
}
