package cli

import (
	"io"

	"github.com/goliatone/go-infer/config"
	"github.com/spf13/cobra"
)

type fieldOptions struct {
	configPath string
	inferrer   string
	engine     string
	expression string
}

func newFieldCmd() *cobra.Command {
	opts := fieldOptions{}
	cmd := &cobra.Command{
		Use:   "field member...",
		Short: "Infer wire names for member names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runField(cmd.OutOrStdout(), args, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.configPath, "config", "", "config yaml path")
	fs.StringVar(&opts.inferrer, "inferrer", "", "built-in inferrer: camel, snake or verbatim")
	fs.StringVar(&opts.engine, "engine", "", "expression engine: expr, cel or js")
	fs.StringVar(&opts.expression, "expression", "", "inferrer expression over name and owner")
	return cmd
}

func runField(out io.Writer, members []string, opts fieldOptions) error {
	file := &config.File{}
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		// Types need Go bindings, which the CLI does not have.
		loaded.Types = nil
		file = loaded
	}
	if opts.inferrer != "" || opts.expression != "" {
		file.FieldInferrer = &config.Inferrer{Name: opts.inferrer, Engine: opts.engine, Expression: opts.expression}
	}
	settings, err := file.Settings(nil)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(members))
	for _, member := range members {
		name, err := settings.InferFieldName(member)
		if err != nil {
			return err
		}
		names[member] = name
	}
	return writeYAML(out, names)
}
