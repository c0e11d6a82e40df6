package upcscan

// DecodeOptions configures decoding behavior.
type DecodeOptions struct {
	// AppendCheckDigit appends the verified check digit to Result.Text, giving the
	// 12-digit UPC-A code. By default Text holds the 11 data digits only.
	AppendCheckDigit bool
}

// RowDecoder decodes a single scan line.
type RowDecoder interface {
	DecodeRow(line ScanLine, opts *DecodeOptions) (*Result, error)
}
