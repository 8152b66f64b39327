package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-infer/config"
	"github.com/goliatone/go-infer/pkg/activity"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with layered configuration files",
	}
	cmd.AddCommand(newConfigMergeCmd())
	return cmd
}

type configMergeOptions struct {
	traces  []string
	verbose bool
}

func newConfigMergeCmd() *cobra.Command {
	opts := configMergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge file...",
		Short: "Merge config files, later files override earlier ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMerge(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.traces, "trace", nil, "path to trace across layers, repeatable")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "report each applied layer on stderr")
	return cmd
}

func runConfigMerge(ctx context.Context, out, errOut io.Writer, paths []string, opts configMergeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	layers := make([]config.Layer, 0, len(paths))
	for i, path := range paths {
		name := fmt.Sprintf("%d-%s", i, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		layer, err := config.LoadLayer(name, (i+1)*config.PriorityDefaults, path)
		if err != nil {
			return err
		}
		layers = append(layers, layer)
	}
	stack, err := config.NewStack(layers...)
	if err != nil {
		return err
	}

	hook := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		_, err := fmt.Fprintf(errOut, "applied %s (priority %v)\n", event.ObjectID, event.Metadata["priority"])
		return err
	})
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: opts.verbose})
	merged, err := stack.Merge(ctx, config.WithEmitter(emitter))
	if err != nil {
		return err
	}

	if len(opts.traces) == 0 {
		data, err := merged.File.Marshal()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	traces := make([]config.Trace, 0, len(opts.traces))
	for _, path := range opts.traces {
		trace, err := merged.Trace(path)
		if err != nil {
			return err
		}
		traces = append(traces, trace)
	}
	return writeYAML(out, traces)
}
