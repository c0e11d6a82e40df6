package upca

import (
	"go.uber.org/zap"

	upcscan "github.com/ericlevine/upcscan"
	"github.com/ericlevine/upcscan/bitutil"
)

// Module offsets of the guards and of the two data halves.
const (
	startGuardOffset  = 0
	leftOffset        = startGuardOffset + upcscan.StartGuardWidth             // 3
	centerGuardOffset = leftOffset + upcscan.DigitsPerSide*upcscan.DigitWidth  // 45
	rightOffset       = centerGuardOffset + upcscan.CenterGuardWidth           // 50
	endGuardOffset    = rightOffset + upcscan.DigitsPerSide*upcscan.DigitWidth // 92
)

// Guard patterns, true for a bar.
var (
	startEndPattern = []bool{true, false, true}
	centerPattern   = []bool{false, true, false, true, false}
)

type guardCheck struct {
	guard   upcscan.Guard
	offset  int
	pattern []bool
}

var guardChecks = [3]guardCheck{
	{upcscan.GuardStart, startGuardOffset, startEndPattern},
	{upcscan.GuardCenter, centerGuardOffset, centerPattern},
	{upcscan.GuardEnd, endGuardOffset, startEndPattern},
}

// checkGuards verifies all three guards before reporting, so the log shows
// every mismatch and not only the first.
func checkGuards(bits *bitutil.BitArray, logger *zap.Logger) error {
	var failed []upcscan.Guard
	for _, c := range guardChecks {
		ok := bits.Matches(c.offset, c.pattern)
		logger.Debug("guard check",
			zap.Stringer("guard", c.guard),
			zap.Int("offset", c.offset),
			zap.Bool("ok", ok))
		if !ok {
			failed = append(failed, c.guard)
		}
	}
	if len(failed) > 0 {
		return &upcscan.GuardError{Which: failed[0], Failed: failed}
	}
	return nil
}
