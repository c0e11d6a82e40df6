package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var outputFormats = []string{"text", "json", "yaml"}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// outcome is the printed result of one input.
type outcome struct {
	Input      string `json:"input" yaml:"input"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	CheckDigit *int   `json:"check_digit,omitempty" yaml:"check_digit,omitempty"`
	BarWidth   int    `json:"bar_width,omitempty" yaml:"bar_width,omitempty"`
	Reversed   bool   `json:"reversed,omitempty" yaml:"reversed,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (o *outcome) failed() bool { return o.Error != "" }

// writeOutcomes prints outcomes in input order. In text mode failures go to
// errw; structured formats keep every outcome on w.
func writeOutcomes(w, errw io.Writer, format string, outcomes []*outcome) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outcomes); err != nil {
			return err
		}
		return enc.Close()
	default:
		prefix := len(outcomes) > 1
		for _, o := range outcomes {
			if o.failed() {
				fmt.Fprintf(errw, "%s: error: %s\n", o.Input, o.Error)
				continue
			}
			if prefix {
				fmt.Fprintf(w, "%s: ", o.Input)
			}
			fmt.Fprintf(w, "[UPC_A] %s\n", o.Code)
		}
		return nil
	}
}
