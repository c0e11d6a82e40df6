package main

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	upcscan "github.com/ericlevine/upcscan"
)

// input is one scan line source: an image file or a literal scan line.
type input struct {
	name string
	line upcscan.ScanLine // set for literal scan lines
	err  error            // parse error of a literal scan line
}

// scanner decodes inputs with a shared reader.
type scanner struct {
	cfg    *config
	reader upcscan.RowDecoder
}

// scanAll decodes every input, at most cfg.Jobs at a time, and returns the
// outcomes in input order.
func (s *scanner) scanAll(inputs []input) []*outcome {
	outcomes := make([]*outcome, len(inputs))
	var g errgroup.Group
	g.SetLimit(s.cfg.Jobs)
	for i, in := range inputs {
		g.Go(func() error {
			outcomes[i] = s.scan(in)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *scanner) scan(in input) *outcome {
	o := &outcome{Input: in.name}
	line, err := in.line, in.err
	if line == nil && err == nil {
		line, err = s.loadLine(in.name)
	}
	if err != nil {
		o.Error = err.Error()
		return o
	}
	if s.cfg.TrimQuietZone {
		line = upcscan.TrimQuietZone(line)
	}
	result, err := s.reader.DecodeRow(line, &upcscan.DecodeOptions{AppendCheckDigit: s.cfg.AppendCheck})
	if err != nil {
		o.Error = err.Error()
		return o
	}
	check := result.CheckDigit
	o.Code = result.Text
	o.CheckDigit = &check
	o.BarWidth = result.BarWidth
	o.Reversed = result.Reversed
	return o
}

// loadLine reads the configured row or column of an image file.
func (s *scanner) loadLine(path string) (upcscan.ScanLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	threshold := uint8(s.cfg.Threshold)
	if s.cfg.Column >= 0 {
		return upcscan.ColumnFromImage(img, s.cfg.Column, threshold)
	}
	row := s.cfg.Row
	if row < 0 {
		row = img.Bounds().Dy() / 2
	}
	return upcscan.RowFromImage(img, row, threshold)
}

// literalInputs turns arguments into literal scan lines. "-" reads one scan
// line per non-empty line of stdin.
func literalInputs(args []string, stdin io.Reader) ([]input, error) {
	var inputs []input
	for _, arg := range args {
		if arg != "-" {
			line, err := upcscan.ParseScanLine(arg)
			inputs = append(inputs, input{name: arg, line: line, err: err})
			continue
		}
		sc := bufio.NewScanner(stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		n := 0
		for sc.Scan() {
			n++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			line, err := upcscan.ParseScanLine(text)
			inputs = append(inputs, input{name: fmt.Sprintf("stdin:%d", n), line: line, err: err})
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	return inputs, nil
}

func fileInputs(args []string) []input {
	inputs := make([]input, len(args))
	for i, arg := range args {
		inputs[i] = input{name: arg}
	}
	return inputs
}
