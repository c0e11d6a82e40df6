// Command upcscan decodes UPC-A barcodes from image rows or literal scan lines,
// and renders UPC-A barcodes to PNG.
package main

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	upcscan "github.com/ericlevine/upcscan"
	"github.com/ericlevine/upcscan/upca"
)

const version = "upcscan version 0.3.0"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns its exit code: 0 when every input
// decoded, 1 on decode or I/O failures, 2 on usage errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		configPath string
		row        int
		column     int
		threshold  int
		jobs       int
		format     string
		barWidth   int
		height     int
		generate   string
		output     string
		appendChk  bool
		bits       bool
		verbose    bool
		help       bool
		showVer    bool
	)

	set := getopt.New()
	set.SetProgram("upcscan")
	set.SetParameters("[image-file | scan-line ...]")
	set.FlagLong(&configPath, "config", 'c', "ini configuration file", "FILE")
	optRow := set.FlagLong(&row, "row", 'r', "image row to scan [middle row]", "N")
	optColumn := set.FlagLong(&column, "column", 'x', "scan image column N instead of a row", "N")
	optThreshold := set.FlagLong(&threshold, "threshold", 'T', "luminance at or below which a pixel is a bar [127]", "N")
	optJobs := set.FlagLong(&jobs, "jobs", 'j', "number of inputs decoded concurrently [CPUs]", "N")
	optFormat := set.FlagLong(&format, "format", 'f', "output format: text, json or yaml [text]", "FMT")
	optAppend := set.FlagLong(&appendChk, "append-check", 'a', "append the check digit to the decoded code")
	set.FlagLong(&bits, "bits", 'b', `arguments are literal scan lines of 0 and 1; "-" reads them from stdin`)
	set.FlagLong(&verbose, "verbose", 'v', "log decoding stages")
	set.FlagLong(&generate, "generate", 'g', "render the 11 or 12 digit code to PNG instead of decoding", "DIGITS")
	optOutput := set.FlagLong(&output, "output", 'o', `output file for --generate, or "-" for standard output`, "FILE")
	optBarWidth := set.FlagLong(&barWidth, "bar-width", 'w', "pixels per module for --generate [2]", "N")
	optHeight := set.FlagLong(&height, "height", 'H', "image height for --generate [60]", "N")
	set.FlagLong(&help, "help", 'h', "show this help")
	set.FlagLong(&showVer, "version", 'V', "print version")

	usage := func(w io.Writer) {
		set.PrintUsage(w)
	}
	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(stderr, err)
		usage(stderr)
		return 2
	}
	if help {
		usage(stdout)
		return 0
	}
	if showVer {
		fmt.Fprintln(stdout, version)
		return 0
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if optRow.Seen() {
		cfg.Row = row
	}
	if optColumn.Seen() {
		cfg.Column = column
	}
	if optThreshold.Seen() {
		cfg.Threshold = threshold
	}
	if optJobs.Seen() {
		cfg.Jobs = jobs
	}
	if optFormat.Seen() {
		cfg.Format = format
	}
	if optAppend.Seen() {
		cfg.AppendCheck = appendChk
	}
	if optBarWidth.Seen() {
		cfg.BarWidth = barWidth
	}
	if optHeight.Seen() {
		cfg.Height = height
	}
	if verbose {
		cfg.LogLevel = zapcore.DebugLevel
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := newLogger(stderr, cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	if generate != "" {
		if !optOutput.Seen() {
			output = "-"
		}
		if err := generatePNG(cfg, generate, output, stdout); err != nil {
			logger.Error("generate failed", zap.String("contents", generate), zap.Error(err))
			fmt.Fprintf(stderr, "generate: %v\n", err)
			return 1
		}
		return 0
	}

	if set.NArgs() == 0 {
		usage(stderr)
		return 2
	}

	var inputs []input
	if bits {
		inputs, err = literalInputs(set.Args(), stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	} else {
		inputs = fileInputs(set.Args())
	}

	s := &scanner{cfg: cfg, reader: upca.NewReader(logger)}
	outcomes := s.scanAll(inputs)
	if err := writeOutcomes(stdout, stderr, cfg.Format, outcomes); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	exitCode := 0
	for _, o := range outcomes {
		if o.failed() {
			logger.Info("scan failed", zap.String("input", o.Input), zap.String("error", o.Error))
			exitCode = 1
		}
	}
	return exitCode
}

// newLogger builds a console logger on w, with coloured levels when w is a
// terminal.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if isTerminal(w) {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var errTerminalOutput = errors.New("refusing to write PNG to a terminal; use -o FILE")

// generatePNG renders contents with a quiet zone on both sides and writes it
// as PNG to path, or to stdout when path is "-".
func generatePNG(cfg *config, contents, path string, stdout io.Writer) error {
	line, err := upca.NewWriter().EncodeScanLine(contents, cfg.BarWidth)
	if err != nil {
		return err
	}
	margin := make(upcscan.ScanLine, cfg.QuietZoneWidth*cfg.BarWidth)
	padded := make(upcscan.ScanLine, 0, len(line)+2*len(margin))
	padded = append(padded, margin...)
	padded = append(padded, line...)
	padded = append(padded, margin...)
	img := upcscan.ScanLineImage(padded, cfg.Height)

	if path == "-" {
		if isTerminal(stdout) {
			return errTerminalOutput
		}
		return png.Encode(stdout, img)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
