package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-infer/response"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	paths []string
}

type inspectReport struct {
	Status *int           `yaml:"status,omitempty"`
	Error  *errorReport   `yaml:"error,omitempty"`
	Keys   []string       `yaml:"keys"`
	Values map[string]any `yaml:"values,omitempty"`
}

type errorReport struct {
	Type      string   `yaml:"type,omitempty"`
	Reason    string   `yaml:"reason,omitempty"`
	Index     string   `yaml:"index,omitempty"`
	RootCause []string `yaml:"root_cause,omitempty"`
}

func newInspectCmd() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Split a response body into envelope and payload",
		Long:  "Reads a JSON response body from a file, or stdin when the file is omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runInspect(cmd.OutOrStdout(), in, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.paths, "get", nil, "dotted payload path to print, repeatable")
	return cmd
}

func runInspect(out io.Writer, in io.Reader, opts inspectOptions) error {
	resp, err := response.NewDecoder().ReadDynamic(in)
	if err != nil {
		return err
	}
	report := inspectReport{
		Status: resp.StatusCode,
		Keys:   resp.Body.Keys(),
	}
	if report.Keys == nil {
		report.Keys = []string{}
	}
	if resp.Error != nil {
		report.Error = &errorReport{
			Type:   resp.Error.Type,
			Reason: resp.Error.Reason,
			Index:  resp.Error.Index,
		}
		for _, cause := range resp.Error.RootCause {
			report.Error.RootCause = append(report.Error.RootCause, cause.Reason)
		}
	}
	for _, path := range opts.paths {
		value, ok := resp.Lookup(path)
		if !ok {
			return fmt.Errorf("path %q not found", path)
		}
		if report.Values == nil {
			report.Values = map[string]any{}
		}
		report.Values[path] = plain(value.Interface())
	}
	return writeYAML(out, report)
}

// plain swaps json.Number for int64 or float64 so YAML prints numbers
// unquoted.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = plain(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = plain(t[k])
		}
		return t
	}
	return v
}
